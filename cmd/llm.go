package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyquest/internal/llm"
	"github.com/abhisek/studyquest/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the model calls made for syllabus, avatar and tutor",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model calls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.close()

		list, err := d.backend.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query llm events: %w", err)
		}
		w := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(w, "No model calls recorded yet.")
			return nil
		}

		t := cliTable("ID", "When", "Purpose", "Model", "In", "Out", "ms", "")
		for _, e := range list {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			t.Row(strconv.Itoa(e.ID), e.Timestamp.Local().Format("Jan 02 15:04:05"), e.Purpose,
				clip(e.Model, 28), strconv.Itoa(e.InputTokens), strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10), ok)
		}
		fmt.Fprintln(w, t.Render())
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one model call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("event id must be a number, got %q", args[0])
		}

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.close()

		e, err := d.backend.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get llm event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no llm event with id %d", id)
		}

		w := cmd.OutOrStdout()
		fields := [][2]string{
			{"When", e.Timestamp.Local().Format("2006-01-02 15:04:05")},
			{"Provider", e.Provider},
			{"Model", e.Model},
			{"Purpose", e.Purpose},
			{"Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens)},
			{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
			{"Success", strconv.FormatBool(e.Success)},
		}
		if e.ErrorMessage != "" {
			fields = append(fields, [2]string{"Error", e.ErrorMessage})
		}
		fmt.Fprintf(w, "Event %d\n", e.ID)
		for _, f := range fields {
			fmt.Fprintf(w, "  %-9s %s\n", f[0]+":", f[1])
		}
		section(w, "Prompt", e.RequestBody)
		section(w, "Reply", e.ResponseBody)
		return nil
	},
}

var llmUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Summarize tokens and estimated cost per feature and model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.close()

		ctx := cmd.Context()
		events := d.backend.EventRepo()
		byPurpose, err := events.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("usage by purpose: %w", err)
		}
		w := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(w, "No model calls recorded yet.")
			return nil
		}

		var calls, in, out int
		t := cliTable("Purpose", "Calls", "Input", "Output", "Avg ms")
		for _, u := range byPurpose {
			t.Row(u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10))
			calls, in, out = calls+u.Calls, in+u.InputTokens, out+u.OutputTokens
		}
		t.Row("total", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), "")
		fmt.Fprintln(w, t.Render())

		byModel, err := events.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("usage by model: %w", err)
		}
		if len(byModel) == 0 {
			return nil
		}

		var total float64
		var unpriced []string
		t = cliTable("Model", "Calls", "Input", "Output", "Est. USD")
		for _, u := range byModel {
			price := "?"
			if c := llm.LookupCost(u.Model); c != nil {
				usd := c.Cost(u.InputTokens, u.OutputTokens)
				total += usd
				price = dollars(usd)
			} else {
				unpriced = append(unpriced, u.Model)
			}
			t.Row(clip(u.Model, 32), strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), price)
		}
		label := "total"
		if len(unpriced) > 0 {
			label = "total (priced models)"
		}
		t.Row(label, "", "", "", dollars(total))
		fmt.Fprintln(w)
		fmt.Fprintln(w, t.Render())
		if len(unpriced) > 0 {
			fmt.Fprintf(w, "No price known for: %s\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

func cliTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		Headers(headers...)
}

func section(w io.Writer, title, body string) {
	fmt.Fprintf(w, "\n── %s %s\n", title, strings.Repeat("─", max(0, 56-len(title))))
	if body == "" {
		body = "(not captured)"
	}
	fmt.Fprintln(w, strings.TrimRight(body, "\n"))
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func dollars(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "how many calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "only calls for this feature: syllabus, avatar or tutor")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmUsageCmd)
}
