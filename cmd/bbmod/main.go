package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/bbmod/converter"
	"github.com/binzume/bbmod/gltfutil"
	"github.com/binzume/bbmod/internal/logger"
	"github.com/binzume/bbmod/mmd"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}
	if err := logger.Init(opts.logLevel, opts.logFile); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer logger.Sync()

	if err := convert(opts); err != nil {
		logger.Log.Error("conversion failed", zap.String("input", opts.input), zap.Error(err))
		return 1
	}
	return 0
}

func convert(opts *options) error {
	doc, err := gltfutil.Load(opts.input)
	if err != nil {
		return err
	}
	sc, err := converter.NewGLTFToSceneConverter(nil).Convert(doc)
	if err != nil {
		return err
	}

	for _, path := range opts.motions {
		motion, err := mmd.ParseVMDFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		anim := converter.NewVMDToSceneConverter(&converter.VMDToSceneOption{Name: name}).Convert(motion, sc)
		logger.Log.Info("loaded motion", zap.String("file", path), zap.Int("channels", len(anim.Channels)))
		sc.Animations = append(sc.Animations, anim)
	}

	conv := converter.NewSceneToBBMODConverter(opts.conf)
	model, err := conv.ConvertModel(sc)
	if err != nil {
		return err
	}
	base := outputBase(opts.input, opts.output)
	if err := model.Save(base + ".bbmod"); err != nil {
		return err
	}
	logger.Log.Info("saved model", zap.String("path", base+".bbmod"))

	anims, errs := conv.ConvertAnimations(model, sc)
	failed := len(errs)
	used := map[string]bool{}
	for i, anim := range anims {
		if anim == nil {
			continue
		}
		path := animationPath(base, anim.Name, i, used)
		if err := anim.Save(path); err != nil {
			logger.Log.Error("failed to save animation", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}
		logger.Log.Info("saved animation", zap.String("path", path))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d animations failed", failed, len(sc.Animations))
	}
	return nil
}
