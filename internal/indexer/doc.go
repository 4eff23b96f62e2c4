// Package indexer is the cross-reference indexing pipeline: it admits
// index requests for translation units, runs extraction jobs on a
// bounded worker pool, stages the extracted data in memory and
// periodically merges it into the persistent databases.
//
// # Pipeline
//
//	Index(input, args, mode)
//	    │  de-dup by input path, assign job id
//	    ▼
//	job.run()                     (pool worker)
//	    │  parse via the unit cache, walk inclusions + AST
//	    │  fold results into the four staging maps
//	    ▼
//	completion handler            (single goroutine)
//	    │  on quiescence or every SyncInterval completions
//	    ▼
//	Sync()                        merge-with-union into badger
//
// # Staging and locking
//
// Four staging maps accumulate extracted data by category: inclusions,
// definitions, references and symbol names. Each has its own lock, so
// a job folding symbols never blocks one folding references, and a
// category being synced only stalls jobs producing that category. A
// goroutine never holds two category locks at once, and never a
// category lock together with the coordinator lock.
//
// # Durability
//
// Sync unions staged sets into the stored sets and never removes
// elements, so database contents grow monotonically and re-indexing an
// unchanged unit writes nothing. Close drains outstanding jobs and
// runs a final sync before returning.
package indexer
