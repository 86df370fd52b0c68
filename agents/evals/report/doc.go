/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package report summarizes an evaluation run for humans and CI.

Table walks a tree of ResultCollectors and writes a markdown table with the
run count, pass rate and first failure of every namespace that saw traces:

	out, below := report.Table(obs, 0.8)
	fmt.Print(out)
	if below {
		os.Exit(1)
	}
*/
package report
