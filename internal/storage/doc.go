// Package storage executes rendered queries against SQLite.
//
// The driver is chosen at build time. The default build uses the pure Go
// modernc.org/sqlite; building with the sqlite_cgo tag switches to
// github.com/mattn/go-sqlite3.
//
// # Basic Usage
//
//	r, err := storage.Open("docs.db", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	res, err := r.Run(ctx, page.Query)
//	// res.Rows holds the page, res.Total the unpaged row count
//
// Run renders the statement and its count, then executes both concurrently.
// Any query implementing Statementer can be run; *sqlq.Query does.
//
// Full-text table functions only exist on engines that provide them, so
// on SQLite only queries rendered in the SQLite dialect without a search
// predicate are executable.
package storage
