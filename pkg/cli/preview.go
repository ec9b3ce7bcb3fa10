/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/patchform/pkg/emit"
)

func previewCmd() *cli.Command {
	return &cli.Command{
		Name:                  "preview",
		EnableShellCompletion: true,
		Usage:                 "Show the effect of a change request without modifying anything",
		ArgsUsage:             "REQUEST",
		Description: `Resolve the request into patches and render a before/after diff for every
matched resource, followed by the patch document itself.

# Examples

Preview against manifests on disk:
  patchform preview --manifests ./deploy "add memory limit 512Mi to all deployments"

Preview against the live cluster:
  patchform preview "update nginx to v1.16, add label env=prod for my-nginx"`,
		Flags: []cli.Flag{
			manifestsFlag,
			kubeconfigFlag,
			protectFlag,
			outputFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			request, err := requestFromArgs(cmd)
			if err != nil {
				return err
			}

			p, err := newPipeline(cmd)
			if err != nil {
				return err
			}

			res, err := p.Run(ctx, request)
			if err != nil {
				return err
			}
			reportWarnings(cmd, res.Warnings)

			if len(res.Patches) == 0 {
				fmt.Fprintln(cmd.Writer, "no resources to patch")
				return nil
			}

			var out io.Writer = cmd.Writer
			if path := cmd.String("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create output file %s: %w", path, err)
				}
				defer f.Close()
				out = f
			}

			return emit.WriteDiffs(out, res.Patches, res.Resource)
		},
	}
}
