package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"task-crawler/api/internal/subject"
	"task-crawler/api/internal/task"
)

func newSubjectsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List known subjects with their files and filter rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := subject.DefaultRegistry(task.TypeFormat(a.cfg.Output.TypeFormat))
			if err != nil {
				return err
			}
			return printSubjects(cmd.OutOrStdout(), reg.All())
		},
	}
}

func printSubjects(w io.Writer, subjects []subject.Subject) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKEY\tNAME\tCACHE\tOUTPUT\tRULES")
	for _, s := range subjects {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.Key, s.Name, s.CacheFile, s.OutputFile, s.Policy)
	}
	return tw.Flush()
}
