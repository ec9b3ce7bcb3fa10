/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/patchform/pkg/defaults"
	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/k8s/client"
	"github.com/NVIDIA/patchform/pkg/logging"
	"github.com/NVIDIA/patchform/pkg/pipeline"
	"github.com/NVIDIA/patchform/pkg/policy"
	"github.com/NVIDIA/patchform/pkg/scanner"
)

const (
	name           = "patchform"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
)

var (
	manifestsFlag = &cli.StringSliceFlag{
		Name:    "manifests",
		Aliases: []string{"m"},
		Usage:   "Manifest file or directory to discover targets from (repeatable). Omit to discover from the cluster.",
	}
	kubeconfigFlag = &cli.StringFlag{
		Name:  "kubeconfig",
		Usage: "Path to kubeconfig for cluster discovery (default: standard discovery)",
	}
	protectFlag = &cli.StringSliceFlag{
		Name:  "protect",
		Usage: fmt.Sprintf("Namespace to protect from patching (default: %s)", strings.Join(policy.DefaultProtectedNamespaces, ", ")),
	}
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
)

// Run executes the CLI with the given arguments. It is called by
// main.main() and returns the process exit code.
func Run(args []string) int {
	ctx, cancel := context.WithTimeout(context.Background(), defaults.CLIRequestTimeout)
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	root := &cli.Command{
		Name:    name,
		Usage:   "Turn natural-language change requests into Kubernetes strategic merge patches",
		Version: fmt.Sprintf("%s (commit %s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			previewCmd(),
			exportCmd(),
			applyCmd(),
			undoCmd(),
		},
	}

	if err := root.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// requestFromArgs joins the positional arguments into the request text.
func requestFromArgs(cmd *cli.Command) (string, error) {
	request := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if request == "" {
		return "", errors.New(errors.ErrCodeInvalidRequest,
			"no request given; describe the change, e.g. \"add memory limit 512Mi to all deployments\"")
	}
	return request, nil
}

// newPipeline builds the request pipeline from command flags: a file
// scanner when --manifests is given, otherwise a cluster scanner over the
// resolved kube context.
func newPipeline(cmd *cli.Command) (*pipeline.Pipeline, error) {
	var opts []pipeline.Option
	if protected := cmd.StringSlice("protect"); len(protected) > 0 {
		opts = append(opts, pipeline.WithPolicy(policy.New(protected...)))
	}

	if paths := cmd.StringSlice("manifests"); len(paths) > 0 {
		return pipeline.New(scanner.NewFileScanner(paths...), opts...), nil
	}

	cs, _, err := client.GetKubeClientWithConfig(cmd.String("kubeconfig"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, "failed to build kubernetes client", err)
	}
	return pipeline.New(scanner.NewClusterScanner(cs), opts...), nil
}

// reportWarnings prints zero-target warnings so "nothing matched" is
// visible rather than silent.
func reportWarnings(cmd *cli.Command, warnings []pipeline.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrWriter, "warning: %s\n", w.Message)
	}
}
