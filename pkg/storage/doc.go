// Package storage writes downloaded videos to disk.
//
// A Manager is bound to one output directory, created on construction.
// Videos are streamed straight into <id>.mp4 in fixed-size chunks; an
// existing file of the same name is truncated and rewritten. There is no
// temporary file, no skip-if-exists check and no checksum.
//
//	manager, err := storage.NewManager("redgifs_videos", storage.DefaultChunkSize, log)
//	if err != nil {
//	    return err
//	}
//	n, err := manager.SaveVideo(body, "abc123")
package storage
