/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/patchform/pkg/apply"
	"github.com/NVIDIA/patchform/pkg/errors"
	"github.com/NVIDIA/patchform/pkg/k8s/client"
	"github.com/NVIDIA/patchform/pkg/serializer"
)

func undoCmd() *cli.Command {
	return &cli.Command{
		Name:                  "undo",
		EnableShellCompletion: true,
		Usage:                 "Restore resources from an apply undo file",
		ArgsUsage:             "UNDO_FILE",
		Description: `Read the prior-manifest snapshots written by "apply --undo-file" and write
them back to the cluster, reverting the applied patches. The file may also
be an http(s) URL or a cm://namespace/name ConfigMap URI.

# Examples

  patchform undo prior.yaml
  patchform undo --kubeconfig ~/.kube/stage cm://ops/patchform-undo`,
		Flags: []cli.Flag{
			kubeconfigFlag,
			&cli.FloatFlag{
				Name:  "rate",
				Value: 10,
				Usage: "Maximum restore API calls per second",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return errors.New(errors.ErrCodeInvalidRequest,
					"no undo file given; pass the file written by \"apply --undo-file\"")
			}

			kubeconfig := cmd.String("kubeconfig")
			records, err := serializer.FromFileWithKubeconfig[[]*apply.Result](path, kubeconfig)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidRequest, "failed to load undo file "+path, err)
			}
			if records == nil || len(*records) == 0 {
				fmt.Fprintln(cmd.Writer, "nothing to restore")
				return nil
			}

			cs, _, err := client.GetKubeClientWithConfig(kubeconfig)
			if err != nil {
				return errors.Wrap(errors.ErrCodeUnavailable, "failed to build kubernetes client", err)
			}

			applier := apply.New(cs, apply.WithRateLimit(rate.Limit(cmd.Float("rate")), 3))
			restored, restoreErr := applier.Restore(ctx, *records)
			if restoreErr != nil {
				return fmt.Errorf("restored %d of %d resource(s): %w", len(restored), len(*records), restoreErr)
			}

			fmt.Fprintf(cmd.Writer, "restored %d resource(s)\n", len(restored))
			return nil
		},
	}
}
