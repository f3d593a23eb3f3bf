// Package hostfs mounts a host directory into the virtual filesystem.
//
// Every node and stream operation the virtual filesystem dispatches is turned
// into calls against the host filesystem API, and every result is turned back
// into the shapes the virtual layer expects:
//
//   - host failures become *errno.Error values (not-supported becomes ENOSYS,
//     a symbolic code maps through a fixed table, anything else propagates
//     untouched);
//   - host status records become POSIX stat records, with the fields the
//     host platform cannot report synthesized;
//   - POSIX open flags become host open options.
//
// Paths are never stored. Each operation rebuilds the host path by walking a
// node's parents up to the mount root.
//
// Basic use:
//
//	fsys := hostfs.New(host.NewOS(), hostfs.WithLogger(log))
//	root, err := fsys.Mount(&vfs.Mount{Root: "/srv/data", Mountpoint: "/data"})
//	child, err := root.NodeOps.Lookup(root, "notes.txt")
//
// Known gaps carried over from the host API: timestamps cannot be set,
// symlink does not pass a file/dir hint (Windows needs one), readlink
// returns the raw target without rebasing it onto the mount, and O_EXCL,
// O_NOFOLLOW and O_DSYNC are accepted but have no effect.
package hostfs
