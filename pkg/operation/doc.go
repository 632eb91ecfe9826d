/*
Package operation applies mapping rules to a folder of files.

	+-----------+      +----------+      +-----------+
	|  mapping  | ---> | Pipeline | ---> |  Executor |
	|  records  |      | (rules)  |      | (files)   |
	+-----------+      +----+-----+      +-----+-----+
	                        |                  |
	                   scan.Scanner       rename / copy
	                   rule.Matcher       dry run report

🎯 Purpose:
- Turns each mapping record into a rule and applies it to the source folder
- Renames or copies every matched file, or only reports it in dry run mode

🔄 Flow:
1. Ensure the destination folder exists (not in dry run)
2. Read records in file order; invalid records stop the run
3. Skip rules whose pattern equals their replacement
4. For each rule, list the source folder and execute every match
5. Return a Summary, or the first error once in-flight work stopped

⚡ Concurrency:
Rules run in an errgroup limited to Parallelism. Within one rule, matched files
run in a second errgroup with the same limit. Side effects of different rules
may interleave; with Parallelism 1 everything runs in mapping file order.

🔍 Example:

	p, err := operation.New(operation.Options{Config: cfg, Fs: afero.NewOsFs()})
	if err != nil {
		return err
	}
	summary, err := p.Run(ctx, reader)
*/
package operation
