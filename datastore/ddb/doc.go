/*
Package ddb provides a DynamoDB implementation of the datastore provider
interfaces.

Records live in a single table under a fixed key schema:

	PK = "ENTITY#<id>"
	SK = "ENTITY"

with the raw attribute map, an opaque version token, and an RFC 3339
updated-at timestamp stored alongside. Scan enumerates every entity row,
following DynamoDB pagination.

	client, _ := ddb.NewClient(accessKey, secretKey, region)
	provider := ddb.New(client, tableName)

	store, _ := datastore.New("vehicles", reg, provider,
	    datastore.WithWritable(),
	)

Integration tests require AWS credentials and a test table; see the
build-tagged tests in this package.
*/
package ddb
