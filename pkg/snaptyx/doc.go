// Package snaptyx provides the library API for snaptyx: turning a
// directory tree into a single text snapshot and back.
//
// This package is the integration point for external consumers. It wraps
// the internal selector, renderer and snapshot packages and applies the
// project configuration found in .snaptyx.yaml.
//
// # Concurrency Safety
//
// Operations are filesystem-based and synchronous:
//
//   - CreateSnapshot is safe when no concurrent writes happen under the
//     source directory. Files changing during the walk produce a snapshot
//     that mixes old and new content.
//
//   - RestoreSnapshot overwrites files in place. Two restores into the
//     same destination must not run concurrently.
//
//   - Diff, Check and Inspect only read.
//
//   - Calls on different directories are independent.
//
// # Usage
//
//	res, err := snaptyx.CreateSnapshot(ctx, "./project", "project.txt", snaptyx.CreateOptions{})
//	if err != nil {
//	    return err
//	}
//	if res.Empty {
//	    // nothing matched; no file was written
//	}
//
//	_, err = snaptyx.RestoreSnapshot(ctx, "project.txt", "./restored", snaptyx.RestoreOptions{})
//
//	d, err := snaptyx.Diff(ctx, "project.txt", "./project", snaptyx.CreateOptions{})
//	if err == nil && !d.Clean() {
//	    fmt.Print(d.FormatHuman())
//	}
package snaptyx
