package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/binzume/bbmod/bbmod"
	"github.com/binzume/bbmod/scene"
)

type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	conf     *bbmod.Config
	input    string
	output   string
	motions  []string
	logLevel string
	logFile  string
}

var errUsage = errors.New("usage")

const usage = "Usage: bbmod [flags] input.gltf|input.glb [output]"

// boolFlag is a config switch with a short and a long name.
type boolFlag struct {
	short, long string
	field       func(c *bbmod.Config) *bool
	help        string
}

var boolFlags = []boolFlag{
	{"lh", "left-handed", func(c *bbmod.Config) *bool { return &c.LeftHanded }, "convert to left-handed coordinate system"},
	{"iw", "invert-winding", func(c *bbmod.Config) *bool { return &c.InvertWinding }, "invert winding order of vertices"},
	{"dn", "disable-normal", func(c *bbmod.Config) *bool { return &c.DisableNormals }, "disable normal vectors (also disables tangents)"},
	{"fn", "flip-normal", func(c *bbmod.Config) *bool { return &c.FlipNormals }, "flip normal vectors"},
	{"duv", "disable-uv", func(c *bbmod.Config) *bool { return &c.DisableTextureCoords }, "disable texture coordinates"},
	{"fuvx", "flip-uv-x", func(c *bbmod.Config) *bool { return &c.FlipTextureHorizontally }, "flip texture coordinates horizontally"},
	{"fuvy", "flip-uv-y", func(c *bbmod.Config) *bool { return &c.FlipTextureVertically }, "flip texture coordinates vertically"},
	{"dc", "disable-color", func(c *bbmod.Config) *bool { return &c.DisableVertexColors }, "disable vertex colors"},
	{"dt", "disable-tangent", func(c *bbmod.Config) *bool { return &c.DisableTangentW }, "disable tangent vectors and bitangent signs"},
	{"db", "disable-bone", func(c *bbmod.Config) *bool { return &c.DisableBones }, "disable bones and animations"},
}

// parseOptions parses the command line. Config values come from the defaults,
// then the -config file, then the flags given explicitly.
func parseOptions(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("bbmod", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}

	defaults := bbmod.DefaultConfig()
	flagConf := bbmod.DefaultConfig()
	apply := map[string]func(dst *bbmod.Config){}
	for _, f := range boolFlags {
		f := f
		p := f.field(flagConf)
		help := fmt.Sprintf("%s (default %v)", f.help, *f.field(defaults))
		fs.BoolVar(p, f.short, *p, help)
		fs.BoolVar(p, f.long, *p, "same as -"+f.short)
		set := func(dst *bbmod.Config) {
			*f.field(dst) = *p
			if f.short == "dn" && *p {
				dst.DisableTangentW = *p
			}
		}
		apply[f.short] = set
		apply[f.long] = set
	}
	genNormals := int(defaults.GenNormals)
	fs.IntVar(&genNormals, "gn", genNormals, "generate normals if missing: 0 none, 1 flat, 2 smooth")
	fs.IntVar(&genNormals, "gen-normal", genNormals, "same as -gn")
	setGenNormals := func(dst *bbmod.Config) { dst.GenNormals = scene.NormalsMode(genNormals) }
	apply["gn"] = setGenNormals
	apply["gen-normal"] = setGenNormals

	opts := &options{}
	var motions stringList
	configPath := fs.String("config", "", "YAML config file")
	fs.Var(&motions, "motion", "VMD motion to convert (repeatable)")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&opts.logFile, "log-file", "", "also write logs to this file")

	// flags may follow the positional arguments
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if len(positional) == 0 || len(positional) > 2 {
		fs.Usage()
		return nil, errUsage
	}
	if genNormals < int(scene.NormalsNone) || genNormals > int(scene.NormalsSmooth) {
		return nil, fmt.Errorf("invalid -gn value %d", genNormals)
	}

	opts.conf = defaults
	if *configPath != "" {
		conf, err := bbmod.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		opts.conf = conf
	}
	fs.Visit(func(f *flag.Flag) {
		if set, ok := apply[f.Name]; ok {
			set(opts.conf)
		}
	})

	opts.input = positional[0]
	if len(positional) > 1 {
		opts.output = positional[1]
	}
	opts.motions = motions
	return opts, nil
}
