/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/patchform/pkg/emit"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:                  "export",
		EnableShellCompletion: true,
		Usage:                 "Write the request's patches as a Kustomize overlay",
		ArgsUsage:             "REQUEST",
		Description: `Resolve the request into patches and write a Kustomize overlay: a
kustomization.yaml index plus one strategic merge patch file per target.
File names derive from the target's kind, namespace, and name, so the
overlay tree is reproducible across runs.

# Examples

  patchform export --manifests ./deploy --out ./overlay "add label env=prod to all services"
  kubectl kustomize ./overlay`,
		Flags: []cli.Flag{
			manifestsFlag,
			kubeconfigFlag,
			protectFlag,
			&cli.StringFlag{
				Name:  "out",
				Value: "overlay",
				Usage: "Directory to write the overlay into",
			},
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
				fmt.Fprintln(cmd.Writer, "no resources to patch, overlay not written")
				return nil
			}

			dir := cmd.String("out")
			if err := emit.WriteOverlay(dir, res.Patches); err != nil {
				return err
			}

			fmt.Fprintf(cmd.Writer, "wrote overlay with %d patch(es) to %s\n", len(res.Patches), dir)
			return nil
		},
	}
}
