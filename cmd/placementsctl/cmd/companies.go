package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"placements-hub/internal/mockdata"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List recruiting companies",
	Long: `Fetches the company catalog through the authenticated session client,
refreshing the access token transparently if it has expired.`,
	RunE: runCompanies,
}

func init() {
	rootCmd.AddCommand(companiesCmd)
}

func runCompanies(cmd *cobra.Command, args []string) error {
	c, _ := newSession()
	if !c.IsAuthenticated() {
		return fmt.Errorf("not logged in")
	}

	resp, err := c.Get(cmd.Context(), "/api/companies/")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var body struct {
		Count   int                `json:"count"`
		Results []mockdata.Company `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decoding company list: %w", err)
	}

	rows := make([][]string, 0, len(body.Results))
	for _, company := range body.Results {
		rows = append(rows, []string{
			strconv.Itoa(company.ID),
			company.Name,
			company.Industry,
			company.Location,
			company.Status,
			strconv.Itoa(company.JobsPosted),
		})
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"ID", "Name", "Industry", "Location", "Status", "Jobs"})
	table.Bulk(rows)
	table.Render()
	fmt.Printf("%d companies\n", body.Count)
	return nil
}
