// Command modelinfo imports model files without a GPU and prints what the
// renderer would stage for them.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"motor/internal/asset"
	_ "motor/internal/asset/obj"
	"motor/internal/config"
	"motor/internal/graphics"
)

func main() {
	checkTextures := flag.Bool("textures", false, "decode every referenced texture")
	v := flag.Bool("v", false, "info logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] model-path...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevel(false, *v, false),
	})))

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := false
	for _, path := range flag.Args() {
		if err := describe(os.Stdout, path, *checkTextures); err != nil {
			slog.Error("import failed", "path", path, "err", err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func describe(out io.Writer, path string, checkTextures bool) error {
	a, err := asset.Load(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %d meshes, %d vertices, %d textures\n", a.Path, len(a.Meshes), a.VertexCount(), len(a.Textures))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  mesh\tvertices\tindices\tmaterial\ttexture")
	for i := range a.Meshes {
		m := &a.Meshes[i]
		tex, ok := a.TextureFor(m)
		if !ok {
			tex = "-"
		}
		fmt.Fprintf(tw, "  %s\t%d\t%d\t%s\t%s\n", m.Name, m.VertexCount(), len(m.Indices), m.Material, tex)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if checkTextures {
		dec := graphics.NewFileDecoder()
		for _, ref := range a.Textures {
			img, err := dec.Decode(ref.Path)
			if err != nil {
				fmt.Fprintf(out, "  texture %s: fallback (%v)\n", ref.Path, err)
				continue
			}
			fmt.Fprintf(out, "  texture %s: %dx%d\n", ref.Path, img.Width, img.Height)
		}
	}
	return nil
}
