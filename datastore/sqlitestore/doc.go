/*
Package sqlitestore provides a SQLite implementation of the datastore
provider interfaces, backed by the pure-Go modernc.org/sqlite driver.

Records live in one table as JSON blobs with a version token and an
updated-at timestamp:

	provider, err := sqlitestore.New("entities.db")
	if err != nil {
	    return err
	}
	defer provider.Close()

	store, _ := datastore.New("vehicles", reg, provider,
	    datastore.WithWritable(),
	)
*/
package sqlitestore
