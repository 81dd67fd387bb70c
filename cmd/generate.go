package main

//go:generate echo "Generating SQLC files..."
//go:generate bash -c "export PATH=$$PATH:~/go/bin && sqlc generate -f ../storage/sqlc.yaml"
//go:generate echo "SQLC files generated"

// This file holds the go:generate directive that regenerates storage/db
// from storage/queries. Run
//
// go generate ./...
//
// from the project root directory.
