// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/qbraid/qbraid-go/internal/runtime"
	"github.com/qbraid/qbraid-go/internal/runtime/braket"
	"github.com/qbraid/qbraid-go/internal/store"
)

var (
	jobsListStatus  string
	jobsListDevice  string
	jobsListLimit   int
	jobsListTag     string
	jobsListRegions []string
	jobsWaitPoll    time.Duration
	jobsWaitFor     time.Duration
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect and manage quantum jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List locally tracked jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if jobsListTag != "" {
			return listTaggedTasks(cmd)
		}

		history, err := openHistory()
		if err != nil {
			return err
		}
		defer history.Close() //nolint:errcheck

		filter := store.ListFilter{DeviceID: jobsListDevice, Limit: jobsListLimit}
		if jobsListStatus != "" {
			status, err := runtime.ParseJobStatus(jobsListStatus)
			if err != nil {
				return err
			}
			filter.Status = status
		}
		recs, err := history.List(cmd.Context(), filter)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(cmd.OutOrStdout(), recs)
		}
		tw := table(cmd.OutOrStdout())
		fmt.Fprintln(tw, "JOB\tDEVICE\tPROVIDER\tSTATUS\tSHOTS\tCREATED")
		for _, rec := range recs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
				rec.JobID, rec.DeviceID, rec.Provider, rec.Status, rec.Shots,
				rec.CreatedAt.Format(time.RFC3339))
		}
		return tw.Flush()
	},
}

// listTaggedTasks searches Braket task documents by tag across regions.
// The flag value is key or key=v1,v2.
func listTaggedTasks(cmd *cobra.Command) error {
	key, raw, _ := strings.Cut(jobsListTag, "=")
	if key == "" {
		return fmt.Errorf("--tag requires a key, e.g. --tag experiment=bell")
	}
	var values []string
	if raw != "" {
		values = strings.Split(raw, ",")
	}

	session, err := newSession()
	if err != nil {
		return err
	}
	docs, err := braket.NewProvider(session, cfg).TasksByTag(cmd.Context(), key, values, jobsListRegions)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(cmd.OutOrStdout(), docs)
	}
	tw := table(cmd.OutOrStdout())
	fmt.Fprintln(tw, "JOB\tVENDOR ID\tDEVICE\tSTATUS\tCREATED")
	for _, doc := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			doc.QbraidJobID, doc.VendorJobID, doc.DeviceID, doc.QbraidStatus,
			doc.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

var jobsGetCmd = &cobra.Command{
	Use:   "get <job-id>",
	Short: "Show a job's current status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := loadJob(cmd, args[0])
		if err != nil {
			return err
		}
		status, err := job.Status(cmd.Context())
		if err != nil {
			return err
		}
		syncHistory(cmd, job.ID(), status)

		if flagJSON {
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"id":     job.ID(),
				"status": status.String(),
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", job.ID(), status)
		return nil
	},
}

var jobsCancelCmd = &cobra.Command{
	Use:   "cancel <job-id>",
	Short: "Request cancellation of a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := loadJob(cmd, args[0])
		if err != nil {
			return err
		}
		if err := job.Cancel(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cancellation requested for %s\n", job.ID())
		return nil
	},
}

var jobsWaitCmd = &cobra.Command{
	Use:   "wait <job-id>",
	Short: "Block until a job reaches a terminal state, then print its result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := loadJob(cmd, args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if jobsWaitFor > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, jobsWaitFor)
			defer cancel()
		}
		status, err := runtime.Wait(ctx, job, jobsWaitPoll)
		if err != nil {
			return err
		}
		syncHistory(cmd, job.ID(), status)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", job.ID(), status)

		if status != runtime.StatusCompleted {
			return nil
		}
		result, err := job.Result(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd, result)
	},
}

var jobsResultCmd = &cobra.Command{
	Use:   "result <job-id>",
	Short: "Fetch a completed job's result",
	Long: "Fetch the measurement counts of a completed job. Results are " +
		"cached locally so repeated reads do not hit the platform.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID := args[0]

		results, err := store.OpenResults(filepath.Join(cfg.DataDir, "results"), store.DefaultResultTTL)
		if err == nil {
			defer results.Close() //nolint:errcheck
			if cached, err := results.Get(jobID); err == nil {
				return printResult(cmd, cached)
			}
		}

		job, err := loadJob(cmd, jobID)
		if err != nil {
			return err
		}
		result, err := job.Result(cmd.Context())
		if err != nil {
			return err
		}
		if results != nil {
			_ = results.Put(result)
		}
		return printResult(cmd, result)
	},
}

func printResult(cmd *cobra.Command, result *runtime.Result) error {
	if flagJSON {
		return printJSON(cmd.OutOrStdout(), result)
	}
	tw := table(cmd.OutOrStdout())
	fmt.Fprintln(tw, "OUTCOME\tCOUNT\tPROBABILITY")
	probs := result.Probabilities()
	for bits, count := range result.Counts {
		fmt.Fprintf(tw, "%s\t%d\t%.4f\n", bits, count, probs[bits])
	}
	return tw.Flush()
}

func openHistory() (*store.History, error) {
	return store.OpenHistory(filepath.Join(cfg.DataDir, "jobs.db"))
}

// syncHistory mirrors a freshly observed status into the local history.
// Best effort: CLI output never fails on a history write.
func syncHistory(cmd *cobra.Command, jobID string, status runtime.JobStatus) {
	history, err := openHistory()
	if err != nil {
		return
	}
	defer history.Close() //nolint:errcheck
	if rec, err := history.Get(cmd.Context(), jobID); err == nil {
		rec.Status = status
		_ = history.Upsert(cmd.Context(), rec)
	}
}

func init() {
	jobsListCmd.Flags().StringVar(&jobsListStatus, "status", "", "filter by status")
	jobsListCmd.Flags().StringVar(&jobsListDevice, "device", "", "filter by device ID")
	jobsListCmd.Flags().IntVar(&jobsListLimit, "limit", 25, "maximum rows")
	jobsListCmd.Flags().StringVar(&jobsListTag, "tag", "", "search Braket tasks by tag (key or key=v1,v2) instead of local history")
	jobsListCmd.Flags().StringSliceVar(&jobsListRegions, "region", nil, "restrict --tag search to these regions (repeatable)")
	jobsWaitCmd.Flags().DurationVar(&jobsWaitPoll, "poll", 5*time.Second, "poll interval")
	jobsWaitCmd.Flags().DurationVar(&jobsWaitFor, "timeout", 0, "overall timeout (0 = no limit)")

	jobsCmd.AddCommand(jobsListCmd, jobsGetCmd, jobsResultCmd, jobsCancelCmd, jobsWaitCmd)
	rootCmd.AddCommand(jobsCmd)
}
