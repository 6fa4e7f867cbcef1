// iso9075 encodes each input line into an XML NCName (or decodes it with -d).
//
// USAGE:
// $ echo "Channel A: Switch" | iso9075
// Channel_x0020_A_x003a__x0020_Switch
// $ iso9075 -d names.txt other.txt
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/transform"

	"github.com/niklasfasching/iso9075/iso9075"
	"github.com/niklasfasching/iso9075/ncname"
	"github.com/niklasfasching/iso9075/util"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL"`
	Workers  int    `env:"WORKERS"`
}

var decode = flag.Bool("d", false, "decode instead of encode")
var check = flag.Bool("check", false, "print whether each line is a valid NCName")
var stream = flag.Bool("stream", false, "treat the whole input as a single name")

func main() {
	log.SetFlags(0)
	flag.Parse()
	c := Config{LogLevel: "WARN", Workers: 4}
	if err := util.LoadConfig("ISO9075_", &c); err != nil {
		log.Fatal(err)
	}
	lvl, err := util.ParseLvl(c.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	ctx := util.WithLogger(context.Background(), util.WithLvl(lvl, util.WriterSink(os.Stderr, "iso9075")))
	m := mode{decode: *decode, check: *check, stream: *stream}
	if err := run(ctx, os.Stdout, os.Stdin, flag.Args(), c.Workers, m); err != nil {
		log.Fatal(err)
	}
}

type mode struct{ decode, check, stream bool }

// run converts stdin or, if given, every file in paths. Files are converted
// concurrently and written to w in order.
func run(ctx context.Context, w io.Writer, stdin io.Reader, paths []string, workers int, m mode) error {
	if len(paths) == 0 {
		return m.convert(ctx, w, stdin)
	}
	g, outs := &errgroup.Group{}, make([]bytes.Buffer, len(paths))
	g.SetLimit(max(workers, 1))
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			f, err := os.Open(p)
			if err != nil {
				return err
			}
			defer f.Close()
			util.Debugf(ctx, "converting %s", p)
			if err := m.convert(ctx, &outs[i], f); err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i := range outs {
		if _, err := outs[i].WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

func (m mode) convert(ctx context.Context, w io.Writer, r io.Reader) error {
	if m.stream {
		var t transform.Transformer = iso9075.ISO9075.NewEncoder()
		if m.decode {
			t = iso9075.ISO9075.NewDecoder()
		}
		_, err := io.Copy(w, transform.NewReader(r, t))
		return err
	}
	br, n := bufio.NewReader(r), 0
	for {
		l, err := br.ReadString('\n')
		if errors.Is(err, io.EOF) && l == "" {
			util.Debugf(ctx, "converted %d lines", n)
			return nil
		} else if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		l, nl := strings.CutSuffix(l, "\n")
		if _, err := io.WriteString(w, m.line(ctx, l)); err != nil {
			return err
		} else if nl {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		n++
	}
}

func (m mode) line(ctx context.Context, l string) string {
	switch {
	case m.check:
		return fmt.Sprint(ncname.Valid(l))
	case m.decode:
		return iso9075.Decode(l)
	default:
		if l == "" {
			util.Warnf(ctx, "empty name is not a valid NCName")
		}
		return iso9075.Encode(l)
	}
}
