// Copyright (c) 2025 The gforemost authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/VKKKV/gforemost/internal/scan"
	fmtutil "github.com/VKKKV/gforemost/pkg/util/format"
)

func DefineScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "scan <image>",
		Short:        "Scan an image file or disk for embedded files",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunScan,
	}

	cmd.Flags().StringP("output", "o", "output", "directory where carved files will be saved")
	cmd.Flags().IntP("workers", "j", 0, "number of worker threads (defaults to the number of CPUs)")
	cmd.Flags().String("chunk-size", "1MB", "scan chunk size")
	cmd.Flags().String("max-scan-size", "", "max number of bytes to scan")
	cmd.Flags().StringSlice("ext", nil, "file extensions to carve")
	cmd.Flags().String("report", "", "path of the DFXML report file")
	cmd.Flags().String("config", "", "path to a YAML scan profile")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	return cmd
}

func RunScan(cmd *cobra.Command, args []string) error {
	opts, err := parseScanOptions(cmd)
	if err != nil {
		return err
	}
	return scan.Scan(args[0], opts)
}

func parseScanOptions(cmd *cobra.Command) (scan.Options, error) {
	flags := cmd.Flags()

	var opts scan.Options
	opts.OutputDir, _ = flags.GetString("output")
	opts.ReportFile, _ = flags.GetString("report")
	opts.Workers, _ = flags.GetInt("workers")
	opts.FileExt, _ = flags.GetStringSlice("ext")
	opts.NoProgress, _ = flags.GetBool("no-progress")

	chunkSize, _ := flags.GetString("chunk-size")
	maxScanSize, _ := flags.GetString("max-scan-size")

	// A config file provides defaults; explicitly set flags win.
	if path, _ := flags.GetString("config"); path != "" {
		cfg, err := scan.LoadConfig(path)
		if err != nil {
			return scan.Options{}, err
		}

		if cfg.Output != "" && !flags.Changed("output") {
			opts.OutputDir = cfg.Output
		}
		if cfg.Report != "" && !flags.Changed("report") {
			opts.ReportFile = cfg.Report
		}
		if cfg.Workers > 0 && !flags.Changed("workers") {
			opts.Workers = cfg.Workers
		}
		if len(cfg.Ext) > 0 && !flags.Changed("ext") {
			opts.FileExt = cfg.Ext
		}
		if cfg.NoProgress && !flags.Changed("no-progress") {
			opts.NoProgress = true
		}
		if cfg.ChunkSize != "" && !flags.Changed("chunk-size") {
			chunkSize = cfg.ChunkSize
		}
		if cfg.MaxScanSize != "" && !flags.Changed("max-scan-size") {
			maxScanSize = cfg.MaxScanSize
		}
		if cfg.LogLevel != "" && !flags.Changed("log-level") {
			setLogLevel(cfg.LogLevel)
		}
	}

	var err error
	if opts.ChunkSize, err = fmtutil.ParseBytes(chunkSize); err != nil {
		return scan.Options{}, fmt.Errorf("invalid chunk size: %w", err)
	}
	if maxScanSize != "" {
		if opts.MaxScanSize, err = fmtutil.ParseBytes(maxScanSize); err != nil {
			return scan.Options{}, fmt.Errorf("invalid max scan size: %w", err)
		}
	}
	return opts, nil
}
