// Command buildmsm estimates the counts and transition matrices of a Markov
// State Model from an assignments file.
//
// Reversible models are obtained either by naive symmetrization (Transpose)
// or by maximum-likelihood estimation of the reversible counts (MLE,
// recommended). The equilibrium populations of the model are computed as
// well. Outputs are written to the output directory:
//
//	tProb.mtx, tCounts.mtx, tCounts.UnSym.mtx, Mapping.dat,
//	Assignments.Fixed.txt, Populations.dat, Model.toml
//
// Existing outputs are never overwritten unless --force is given.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
