// bitstructc decodes and encodes fixed layout binary records described by a KSY schema.
//
//	bitstructc [-v] layout <schema.ksy>
//	bitstructc [-v] decode [-indent] [-framed] <schema.ksy> <record.bin>
//	bitstructc [-v] encode [-compress none|compact|gzip|snappy|zstd] <schema.ksy> <record.json> <out.bin>
//
// decode writes the record as JSON to stdout. encode reads JSON and writes the packed record.
// With -compress the record is written as a compress frame, which decode reads with -framed.
package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/gostdlib/base/context"
	osfs "github.com/gopherfs/fs/io/os"
	"go.uber.org/zap"

	"github.com/bearlytools/bitstruct/languages/go/compress"
	"github.com/bearlytools/bitstruct/languages/go/ksy"
	"github.com/bearlytools/bitstruct/languages/go/structjson"
	"github.com/bearlytools/bitstruct/languages/go/structs"
)

// fileSystem is the part of the OS filesystem the commands need.
type fileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

func main() {
	ctx := context.Background()

	verbose := flag.Bool("v", false, "log schema building to stderr")
	flag.Parse()

	log := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			exitf("failed to create logger: %s", err)
		}
		log = l
		defer log.Sync()
	}

	fsys, err := osfs.New()
	if err != nil {
		exitf("can't access OS: %s", err)
	}

	if err := run(ctx, &app{fs: fsys, log: log, out: os.Stdout}, flag.Args()); err != nil {
		exit(err)
	}
}

type app struct {
	fs  fileSystem
	log *zap.Logger
	out io.Writer
}

// run routes args to a command.
func run(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: bitstructc layout|decode|encode ...")
	}
	switch args[0] {
	case "layout":
		return a.layout(ctx, args[1:])
	case "decode":
		return a.decode(ctx, args[1:])
	case "encode":
		return a.encode(ctx, args[1:])
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func (a *app) read(name string) ([]byte, error) {
	p, err := filepath.Abs(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", name, err)
	}
	b, err := a.fs.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return b, nil
}

func (a *app) schema(ctx context.Context, name string) (*structs.Struct, error) {
	b, err := a.read(name)
	if err != nil {
		return nil, err
	}
	s, err := ksy.Build(ctx, b, ksy.WithLogger(a.log))
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	return s, nil
}

// layout prints every field of the schema with its offset and size.
func (a *app) layout(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bitstructc layout <schema.ksy>")
	}
	s, err := a.schema(ctx, args[0])
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tKIND\tOFFSET\tSIZE")
	for _, name := range s.Names() {
		r, _ := s.Field(name)
		size := fmt.Sprintf("%d bytes", r.Field.Size())
		if r.Field.IsBits() {
			size = fmt.Sprintf("%d bits", r.Field.Width())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, r.Field.Kind(), r.Offset, size)
	}
	fmt.Fprintf(tw, "total\t\t\t%d bytes\n", s.Size())
	return tw.Flush()
}

func (a *app) decode(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("decode", flag.ContinueOnError)
	indent := flags.Bool("indent", false, "indent the JSON output")
	framed := flags.Bool("framed", false, "the record was written with encode -compress")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 2 {
		return fmt.Errorf("usage: bitstructc decode [-indent] [-framed] <schema.ksy> <record.bin>")
	}

	s, err := a.schema(ctx, flags.Arg(0))
	if err != nil {
		return err
	}
	data, err := a.read(flags.Arg(1))
	if err != nil {
		return err
	}
	if *framed {
		rec, m, err := compress.Decode(ctx, data, s.Size())
		if err != nil {
			return fmt.Errorf("%s: %w", flags.Arg(1), err)
		}
		a.log.Debug("read frame", zap.Stringer("method", m), zap.Int("frameBytes", len(data)), zap.Int("recordBytes", len(rec)))
		data = rec
	}

	rec, err := s.Unpack(data, nil)
	if err != nil {
		return err
	}
	var opts []structjson.MarshalOption
	if *indent {
		opts = append(opts, structjson.WithIndent("  "))
	}
	if err := structjson.MarshalWriter(ctx, s, rec, a.out, opts...); err != nil {
		return err
	}
	return nil
}

func (a *app) encode(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("encode", flag.ContinueOnError)
	method := flags.String("compress", "", "write the record as a frame compressed with this method")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 3 {
		return fmt.Errorf("usage: bitstructc encode [-compress method] <schema.ksy> <record.json> <out.bin>")
	}

	s, err := a.schema(ctx, flags.Arg(0))
	if err != nil {
		return err
	}
	js, err := a.read(flags.Arg(1))
	if err != nil {
		return err
	}
	rec, err := structjson.Unmarshal(ctx, s, js)
	if err != nil {
		return fmt.Errorf("%s: %w", flags.Arg(1), err)
	}
	data, err := s.Pack(rec, nil, nil)
	if err != nil {
		return err
	}
	if *method != "" {
		m, err := compress.ParseMethod(*method)
		if err != nil {
			return err
		}
		if data, err = compress.Encode(ctx, m, data); err != nil {
			return err
		}
	}

	out, err := filepath.Abs(flags.Arg(2))
	if err != nil {
		return err
	}
	if err := a.fs.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", flags.Arg(2), err)
	}
	a.log.Debug("wrote record", zap.String("path", out), zap.Int("bytes", len(data)))
	return nil
}

func exit(i ...any) {
	fmt.Println(i...)
	os.Exit(1)
}

func exitf(s string, i ...any) {
	fmt.Printf(s+"\n", i...)
	os.Exit(1)
}
