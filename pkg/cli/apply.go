/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/patchform/pkg/apply"
	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/k8s/client"
	"github.com/NVIDIA/patchform/pkg/pipeline"
	"github.com/NVIDIA/patchform/pkg/policy"
	"github.com/NVIDIA/patchform/pkg/scanner"
	"github.com/NVIDIA/patchform/pkg/serializer"
)

func applyCmd() *cli.Command {
	return &cli.Command{
		Name:                  "apply",
		EnableShellCompletion: true,
		Usage:                 "Apply the request's patches to the live cluster",
		ArgsUsage:             "REQUEST",
		Description: `Resolve the request against the live cluster and apply one strategic merge
patch per matched resource. Each target's manifest before the patch is
recorded; use --undo-file to keep those snapshots for manual rollback.

# Examples

  patchform apply "scale deployment web to 5 replicas"
  patchform apply --undo-file prior.yaml "add label env=prod to all services in namespace api"`,
		Flags: []cli.Flag{
			kubeconfigFlag,
			protectFlag,
			&cli.StringFlag{
				Name:  "undo-file",
				Usage: "File to write prior-manifest snapshots to (default: discard)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Value: 10,
				Usage: "Maximum patch API calls per second",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			request, err := requestFromArgs(cmd)
			if err != nil {
				return err
			}

			cs, _, err := client.GetKubeClientWithConfig(cmd.String("kubeconfig"))
			if err != nil {
				return errors.Wrap(errors.ErrCodeUnavailable, "failed to build kubernetes client", err)
			}

			var opts []pipeline.Option
			if protected := cmd.StringSlice("protect"); len(protected) > 0 {
				opts = append(opts, pipeline.WithPolicy(policy.New(protected...)))
			}
			p := pipeline.New(scanner.NewClusterScanner(cs), opts...)

			res, err := p.Run(ctx, request)
			if err != nil {
				return err
			}
			reportWarnings(cmd, res.Warnings)

			if len(res.Patches) == 0 {
				fmt.Fprintln(cmd.Writer, "no resources to patch")
				return nil
			}

			applier := apply.New(cs, apply.WithRateLimit(rate.Limit(cmd.Float("rate")), 3))
			results, applyErr := applier.Apply(ctx, res.Patches)

			if path := cmd.String("undo-file"); path != "" && len(results) > 0 {
				ser := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
				defer func() {
					if closer, ok := ser.(interface{ Close() error }); ok {
						if err := closer.Close(); err != nil {
							slog.Warn("failed to close undo file", "error", err)
						}
					}
				}()
				if err := ser.Serialize(ctx, results); err != nil {
					slog.Error("failed to write undo snapshots", "error", err, "path", path)
				}
			}

			if applyErr != nil {
				return fmt.Errorf("applied %d of %d patch(es): %w", len(results), len(res.Patches), applyErr)
			}

			fmt.Fprintf(cmd.Writer, "applied %d patch(es)\n", len(results))
			return nil
		},
	}
}
