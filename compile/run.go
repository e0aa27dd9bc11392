// Package compile implements the batch driver behind the "compile"
// subcommand: input expansion, per-unit compilation and output placement.
package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"qssc/qss"
	"qssc/state"
)

func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("compile")

	if cmd.Args().Len() == 0 {
		return errors.New("no input sources have been specified")
	}

	sources, err := expandInputs(cmd.Args().Slice(), env.Cfg.Compiler.SourceExtension, log)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return errors.New("no valid inputs found")
	}

	out := cmd.String("out")
	outExt := env.Cfg.Compiler.OutputExtension
	if len(sources) > 1 && len(out) > 0 && strings.EqualFold(filepath.Ext(out), outExt) {
		return fmt.Errorf("with multiple inputs --out must be a directory, not a '%s' file", outExt)
	}

	env.Overwrite = cmd.Bool("overwrite")

	strip := env.Cfg.Compiler.StripComments
	if cmd.Bool("strip-comments") {
		strip = true
	}
	comp := qss.NewCompiler(log, qss.WithStripComments(strip))

	log.Info("Processing starting", zap.Int("sources", len(sources)), zap.String("out", out))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	// Every entry file is an independent compilation unit with its own
	// variable table and import stack - a failing unit produces no output
	// and never aborts its siblings.
	var errs error
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		if err := compileOne(comp, src, outputPath(src, out, outExt, len(sources) > 1), env, log); err != nil {
			log.Error("Compilation failed", zap.String("entry", src), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", src, err))
		}
	}
	return errs
}

// compileOne compiles a single entry file and writes the result. Nothing is
// written when compilation fails.
func compileOne(comp *qss.Compiler, src, dst string, env *state.LocalEnv, log *zap.Logger) error {
	start := time.Now()

	text, err := comp.Compile(src)
	if err != nil {
		return err
	}

	if _, err := os.Stat(dst); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", dst)
		}
		log.Warn("Overwriting existing file", zap.String("file", dst))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(dst, []byte(text), 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	log.Info("Compilation completed",
		zap.String("from", src), zap.String("to", dst), zap.Int("bytes", len(text)), zap.Duration("elapsed", time.Since(start)))

	if env.Rpt != nil {
		env.Rpt.StoreData("result/"+filepath.Base(dst), []byte(text))
	}
	return nil
}
