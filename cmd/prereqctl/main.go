// prereqctl is a small CLI against a running prereq-orchestrator.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var serverURL string

func main() {
	root := &cobra.Command{
		Use:          "prereqctl",
		Short:        "Query the prerequisite orchestrator",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "orchestrator base URL")

	root.AddCommand(resolveCmd(), searchCmd(), bookmarksCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultServerURL() string {
	if v := os.Getenv("PREREQ_SERVER_URL"); v != "" {
		return v
	}
	return "http://localhost:9020"
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 120 * time.Second}
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <topic>",
		Short: "Resolve a topic and its prerequisites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := fmt.Sprintf("%s/v1/topic?topic=%s", strings.TrimRight(serverURL, "/"), url.QueryEscape(args[0]))
			resp, err := httpClient().Get(endpoint)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			var topic struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				Prereqs     map[string]struct {
					Pageviews int `json:"pageviews"`
				} `json:"prereqs"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&topic); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			if topic.Title == "" {
				fmt.Println("no result (invalid topic?)")
				return nil
			}

			fmt.Printf("%s\n\n", topic.Title)
			if topic.Description != "" {
				fmt.Printf("%s\n\n", topic.Description)
			}
			if len(topic.Prereqs) == 0 {
				fmt.Println("No prerequisites found.")
				return nil
			}
			titles := make([]string, 0, len(topic.Prereqs))
			for t := range topic.Prereqs {
				titles = append(titles, t)
			}
			sort.SliceStable(titles, func(i, j int) bool {
				return topic.Prereqs[titles[i]].Pageviews > topic.Prereqs[titles[j]].Pageviews
			})
			fmt.Println("Prerequisites:")
			for i, t := range titles {
				fmt.Printf("%d. %s\n", i+1, t)
			}
			return nil
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search for topics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := fmt.Sprintf("%s/v1/search?q=%s", strings.TrimRight(serverURL, "/"), url.QueryEscape(args[0]))
			resp, err := httpClient().Get(endpoint)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			var hits []struct {
				Title     string `json:"title"`
				Wordcount int    `json:"wordcount"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			for _, hit := range hits {
				fmt.Printf("%s (%d words)\n", hit.Title, hit.Wordcount)
			}
			return nil
		},
	}
}

func bookmarksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "List bookmarked topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint := strings.TrimRight(serverURL, "/") + "/v1/bookmarks"
			resp, err := httpClient().Get(endpoint)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
			}
			var titles []string
			if err := json.NewDecoder(resp.Body).Decode(&titles); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			for _, t := range titles {
				fmt.Println(t)
			}
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <title>",
		Short: "Bookmark a topic",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return putBookmark(args[0], true) },
	}
	unset := &cobra.Command{
		Use:   "unset <title>",
		Short: "Remove a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return putBookmark(args[0], false) },
	}
	cmd.AddCommand(set, unset)
	return cmd
}

func putBookmark(title string, bookmarked bool) error {
	endpoint := fmt.Sprintf("%s/v1/bookmarks/%s", strings.TrimRight(serverURL, "/"), url.PathEscape(title))
	body := strings.NewReader(fmt.Sprintf(`{"bookmarked":%t}`, bookmarked))
	req, err := http.NewRequest(http.MethodPut, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
