/*
Package redisstore provides a Redis implementation of the datastore
provider interfaces.

Each record is one JSON string under "<prefix>:entity:<id>" holding the raw
attribute map, a version token, and an updated-at timestamp. Scan walks the
prefix with the Redis SCAN cursor.

	provider, err := redisstore.New(redisstore.Options{
	    URL:    "redis://localhost:6379",
	    Prefix: "myapp",
	})
	if err != nil {
	    return err
	}
	defer provider.Close()

	store, _ := datastore.New("vehicles", reg, provider,
	    datastore.WithWritable(),
	)
*/
package redisstore
