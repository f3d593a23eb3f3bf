package main

import (
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/wippyai/hostfs/errno"
	"github.com/wippyai/hostfs/vfs"
)

const copyBufferSize = 32 * 1024

var errUsage = errors.New("usage")

type command struct {
	run   func(s *shell, args []string) error
	usage string
	args  int
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"ls":       {(*shell).ls, "ls PATH", 1},
		"stat":     {(*shell).stat, "stat PATH", 1},
		"cat":      {(*shell).cat, "cat PATH", 1},
		"write":    {(*shell).write, "write PATH TEXT...", 2},
		"append":   {(*shell).appendText, "append PATH TEXT...", 2},
		"mkdir":    {(*shell).mkdir, "mkdir PATH", 1},
		"touch":    {(*shell).touch, "touch PATH", 1},
		"rm":       {(*shell).rm, "rm PATH", 1},
		"rmdir":    {(*shell).rmdir, "rmdir PATH", 1},
		"mv":       {(*shell).mv, "mv FROM TO", 2},
		"symlink":  {(*shell).symlink, "symlink TARGET PATH", 2},
		"readlink": {(*shell).readlink, "readlink PATH", 1},
		"truncate": {(*shell).truncate, "truncate PATH SIZE", 2},
		"chmod":    {(*shell).chmod, "chmod MODE PATH", 2},
		"mmap":     {(*shell).mmap, "mmap PATH OFFSET LENGTH", 3},
		"help":     {(*shell).help, "help", 0},
	}
}

// shell runs file commands against a mounted tree, acting as the
// virtual-filesystem core: it resolves paths by lookup and drives streams.
type shell struct {
	root *vfs.Node
	out  io.Writer
}

func newShell(root *vfs.Node, out io.Writer) *shell {
	return &shell{root: root, out: out}
}

// execLine runs one whitespace-separated command line.
func (s *shell) execLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	return s.exec(fields)
}

func (s *shell) exec(args []string) error {
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", args[0])
	}
	if len(args)-1 < cmd.args {
		return fmt.Errorf("%w: %s", errUsage, cmd.usage)
	}
	return cmd.run(s, args[1:])
}

// resolve walks p from the mount root one lookup at a time.
func (s *shell) resolve(p string) (*vfs.Node, error) {
	node := s.root
	for _, name := range splitPath(p) {
		next, err := node.NodeOps.Lookup(node, name)
		if err != nil {
			return nil, err
		}
		node = next
	}
	return node, nil
}

// resolveParent returns the directory holding p and p's final name.
func (s *shell) resolveParent(p string) (*vfs.Node, string, error) {
	names := splitPath(p)
	if len(names) == 0 {
		return nil, "", errno.New(errno.EBUSY).Path(p).Detail("mount root").Build()
	}
	dir, err := s.resolve(strings.Join(names[:len(names)-1], "/"))
	if err != nil {
		return nil, "", err
	}
	if !vfs.IsDir(dir.Mode) {
		return nil, "", errno.New(errno.ENOTDIR).Path(p).Build()
	}
	return dir, names[len(names)-1], nil
}

func splitPath(p string) []string {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return nil
	}
	return strings.Split(clean[1:], "/")
}

func (s *shell) ls(args []string) error {
	node, err := s.resolve(args[0])
	if err != nil {
		return err
	}
	if !vfs.IsDir(node.Mode) {
		return s.printEntry(node, args[0])
	}
	names, err := node.NodeOps.Readdir(node)
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		child, err := node.NodeOps.Lookup(node, name)
		if err != nil {
			return err
		}
		if err := s.printEntry(child, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *shell) printEntry(node *vfs.Node, name string) error {
	attr, err := node.NodeOps.Getattr(node)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "%s %8d %s %s\n",
		formatMode(attr.Mode), attr.Size, attr.Mtime.Format(time.DateTime), name)
	return err
}

func (s *shell) stat(args []string) error {
	node, err := s.resolve(args[0])
	if err != nil {
		return err
	}
	attr, err := node.NodeOps.Getattr(node)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "  File: %s\n", args[0])
	fmt.Fprintf(s.out, "  Size: %d\tBlocks: %d\tIO Block: %d\n", attr.Size, attr.Blocks, attr.Blksize)
	fmt.Fprintf(s.out, "Device: %d\tInode: %d\tLinks: %d\n", attr.Dev, attr.Ino, attr.Nlink)
	fmt.Fprintf(s.out, "Access: (%04o/%s)\tUid: %d\tGid: %d\n", attr.Mode&vfs.S_IALLUGO, formatMode(attr.Mode), attr.UID, attr.GID)
	fmt.Fprintf(s.out, "Modify: %s\n", attr.Mtime.Format(time.RFC3339Nano))
	fmt.Fprintf(s.out, "Access: %s\n", attr.Atime.Format(time.RFC3339Nano))
	_, err = fmt.Fprintf(s.out, "Change: %s\n", attr.Ctime.Format(time.RFC3339Nano))
	return err
}

// open opens a stream on node. Callers must close the stream.
func (s *shell) open(node *vfs.Node, flags int) (*vfs.Stream, error) {
	stream := vfs.NewStream(node, flags)
	if err := node.StreamOps.Open(stream); err != nil {
		return nil, err
	}
	return stream, nil
}

func (s *shell) cat(args []string) error {
	node, err := s.resolve(args[0])
	if err != nil {
		return err
	}
	stream, err := s.open(node, vfs.O_RDONLY)
	if err != nil {
		return err
	}
	defer node.StreamOps.Close(stream)

	buf := make([]byte, copyBufferSize)
	for {
		n, err := node.StreamOps.Read(stream, buf, stream.Position)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		stream.Position += int64(n)
		if _, err := s.out.Write(buf[:n]); err != nil {
			return err
		}
	}
}

// createFile returns the file at p, creating it when missing.
func (s *shell) createFile(p string) (*vfs.Node, error) {
	dir, name, err := s.resolveParent(p)
	if err != nil {
		return nil, err
	}
	node, err := dir.NodeOps.Lookup(dir, name)
	if errno.Is(err, errno.ENOENT) {
		return dir.NodeOps.Mknod(dir, name, vfs.S_IFREG|0o644, 0)
	}
	return node, err
}

func (s *shell) write(args []string) error {
	return s.writeFile(args[0], strings.Join(args[1:], " ")+"\n", vfs.O_WRONLY|vfs.O_TRUNC)
}

func (s *shell) appendText(args []string) error {
	return s.writeFile(args[0], strings.Join(args[1:], " ")+"\n", vfs.O_WRONLY|vfs.O_APPEND)
}

func (s *shell) writeFile(p, text string, flags int) error {
	node, err := s.createFile(p)
	if err != nil {
		return err
	}
	stream, err := s.open(node, flags)
	if err != nil {
		return err
	}
	defer node.StreamOps.Close(stream)

	if flags&vfs.O_APPEND != 0 {
		_, err = node.StreamOps.Write(stream, []byte(text), vfs.CurrentPosition)
		return err
	}
	data := []byte(text)
	for len(data) > 0 {
		n, err := node.StreamOps.Write(stream, data, stream.Position)
		if err != nil {
			return err
		}
		stream.Position += int64(n)
		data = data[n:]
	}
	return nil
}

func (s *shell) mkdir(args []string) error {
	dir, name, err := s.resolveParent(args[0])
	if err != nil {
		return err
	}
	_, err = dir.NodeOps.Mknod(dir, name, vfs.S_IFDIR|0o755, 0)
	return err
}

func (s *shell) touch(args []string) error {
	node, err := s.createFile(args[0])
	if err != nil {
		return err
	}
	now := time.Now()
	return node.NodeOps.Setattr(node, &vfs.SetAttr{Timestamp: &now})
}

func (s *shell) rm(args []string) error {
	dir, name, err := s.resolveParent(args[0])
	if err != nil {
		return err
	}
	return dir.NodeOps.Unlink(dir, name)
}

func (s *shell) rmdir(args []string) error {
	dir, name, err := s.resolveParent(args[0])
	if err != nil {
		return err
	}
	return dir.NodeOps.Rmdir(dir, name)
}

func (s *shell) mv(args []string) error {
	node, err := s.resolve(args[0])
	if err != nil {
		return err
	}
	dir, name, err := s.resolveParent(args[1])
	if err != nil {
		return err
	}
	return node.NodeOps.Rename(node, dir, name)
}

func (s *shell) symlink(args []string) error {
	dir, name, err := s.resolveParent(args[1])
	if err != nil {
		return err
	}
	return dir.NodeOps.Symlink(dir, name, args[0])
}

func (s *shell) readlink(args []string) error {
	node, err := s.resolve(args[0])
	if err != nil {
		return err
	}
	target, err := node.NodeOps.Readlink(node)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.out, target)
	return err
}

func (s *shell) truncate(args []string) error {
	size, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", args[1], err)
	}
	node, err := s.resolve(args[0])
	if err != nil {
		return err
	}
	return node.NodeOps.Setattr(node, &vfs.SetAttr{Size: &size})
}

func (s *shell) chmod(args []string) error {
	perm, err := strconv.ParseUint(args[0], 8, 32)
	if err != nil || perm > vfs.S_IALLUGO {
		return fmt.Errorf("invalid mode %q", args[0])
	}
	node, err := s.resolve(args[1])
	if err != nil {
		return err
	}
	mode := node.Mode&vfs.S_IFMT | uint32(perm)
	return node.NodeOps.Setattr(node, &vfs.SetAttr{Mode: &mode})
}

func (s *shell) mmap(args []string) error {
	offset, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid offset %q: %w", args[1], err)
	}
	length, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid length %q: %w", args[2], err)
	}
	node, err := s.resolve(args[0])
	if err != nil {
		return err
	}
	stream, err := s.open(node, vfs.O_RDONLY)
	if err != nil {
		return err
	}
	defer node.StreamOps.Close(stream)

	m, err := node.StreamOps.Mmap(stream, 0, length, offset, vfs.PROT_READ, vfs.MAP_PRIVATE)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "%#x %q\n", m.Addr, m.Data)
	return err
}

func (s *shell) help([]string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintln(s.out, "  "+commands[name].usage); err != nil {
			return err
		}
	}
	return nil
}

// formatMode renders a mode the way ls -l does.
func formatMode(mode uint32) string {
	var b [10]byte
	switch {
	case vfs.IsDir(mode):
		b[0] = 'd'
	case vfs.IsLink(mode):
		b[0] = 'l'
	case vfs.IsChrdev(mode):
		b[0] = 'c'
	case vfs.IsFIFO(mode):
		b[0] = 'p'
	default:
		b[0] = '-'
	}
	const rwx = "rwxrwxrwx"
	for i := 0; i < 9; i++ {
		if mode&(1<<uint(8-i)) != 0 {
			b[i+1] = rwx[i]
		} else {
			b[i+1] = '-'
		}
	}
	return string(b[:])
}
