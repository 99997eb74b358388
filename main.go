// Package main implements the main entry point for a CHIP-8 family emulator
package main

import (
	"context"
	"errors"
	"os"

	"github.com/retroenv/chipgoemu/internal/chip8"
	"github.com/retroenv/chipgoemu/internal/cli"
	"github.com/retroenv/chipgoemu/internal/config"
	"github.com/retroenv/chipgoemu/internal/emulator"
	"github.com/retroenv/chipgoemu/internal/hardware"
	"github.com/retroenv/chipgoemu/internal/loader"
	"github.com/retroenv/chipgoemu/internal/options"
	"github.com/retroenv/chipgoemu/internal/profile"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	opts, err := cli.ParseFlags()
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	if err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}

	printBanner(logger, opts)

	if err := run(ctx, logger, opts); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func printBanner(logger *log.Logger, opts options.Program) {
	if opts.Quiet {
		return
	}
	logger.Info("chipgoemu", log.String("version", buildinfo.Version(version, commit, date)))
}

func run(ctx context.Context, logger *log.Logger, opts options.Program) error {
	target, err := profile.ParseTarget(opts.Target)
	if err != nil {
		return err
	}
	prof, err := profile.ByTarget(target)
	if err != nil {
		return err
	}

	vm, err := chip8.New(target)
	if err != nil {
		return err
	}
	if opts.Debug {
		vm.SetTracer(logger)
	}

	rom, err := loader.Load(opts.Input)
	if err != nil {
		return err
	}
	if err := vm.LoadROM(rom); err != nil {
		return err
	}

	logger.Info("Running ROM",
		log.String("file", opts.Input),
		log.String("target", string(target)),
	)

	var tone emulator.Tone
	audio, err := hardware.NewAudio()
	if err != nil {
		logger.Warn("Audio unavailable, running silent", log.Err(err))
	} else {
		tone = audio
		defer func() {
			_ = audio.Close()
		}()
	}

	scale := prof.DefaultScreenScale()
	if opts.Scale > 0 {
		scale = uint8(opts.Scale)
	}

	emu := emulator.New(prof, vm, tone)
	return hardware.Run(ctx, prof, vm, emu, scale)
}
