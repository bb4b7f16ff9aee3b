// Package watcher mines a corpus incrementally as it changes on disk.
//
// The Watcher registers the corpus root (and every subdirectory) with
// fsnotify. When a Go source file is created or written, it re-extracts the
// file's observations and ingests them into the accumulator. A digest cache
// suppresses re-ingestion of files whose contents did not actually change
// (editors commonly fire several write events per save). Accumulated state
// is persisted as a store snapshot on a fixed ticker and once more on
// shutdown.
//
// All accumulator access happens on the watcher's single run goroutine; the
// accumulator itself is not safe for concurrent mutation.
//
// Example usage:
//
//	st, err := store.New("~/.idiomine/idiomine.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer st.Close()
//
//	w, err := watcher.New("./corpus", st, cooccur.NewStrings(), extract.New())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
package watcher
