// Command cloudlap computes the connection Laplacian, its real form and the
// mass matrix of a point cloud and writes them as .npz and .mat files.
//
// Usage:
//
//	cloudlap generate <cloud.ply>      file input, mass matrix, printed listing
//	cloudlap random [--points N]       1000 random points, Laplacians only
//	cloudlap run -c cloudlap.yaml      everything from a config file
//	cloudlap check <complex_cl.npz>    re-check a saved matrix
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
