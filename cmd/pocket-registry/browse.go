package main

import (
	"encoding/json"
	"fmt"

	"github.com/ataraskov/pocket-registry/internal/browser"
	"github.com/ataraskov/pocket-registry/internal/filter"
	sortpkg "github.com/ataraskov/pocket-registry/internal/sort"
	"github.com/spf13/cobra"
)

func newReposCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repos SERVICE",
		Short: "List the repositories of a registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := a.endpoint(args[0])
			if err != nil {
				return err
			}

			repos, err := a.browser.Repositories(cmd.Context(), ep)
			if err != nil {
				return err
			}
			if len(repos) == 0 {
				a.logger.Info("Registry has no repositories", "registry", ep.Hostname)
				return nil
			}
			printLines(cmd.OutOrStdout(), repos)
			return nil
		},
	}
}

func newTagsCmd(a *app) *cobra.Command {
	var (
		search         string
		tagPattern     string
		excludePattern string
		sortMethod     string
		stripPrefix    string
	)

	cmd := &cobra.Command{
		Use:   "tags SERVICE REPOSITORY",
		Short: "List the tags of a repository",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := a.endpoint(args[0])
			if err != nil {
				return err
			}

			query, err := buildTagQuery(search, tagPattern, excludePattern, sortMethod, stripPrefix)
			if err != nil {
				return err
			}

			tags, err := a.browser.Tags(cmd.Context(), ep, args[1], query)
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				a.logger.Info("No tags match", "repository", args[1])
				return nil
			}
			printLines(cmd.OutOrStdout(), tags)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only tags containing this text")
	cmd.Flags().StringVar(&tagPattern, "tag-pattern", "", "Regex pattern for tags to include (e.g., ^v1\\.)")
	cmd.Flags().StringVar(&excludePattern, "exclude-pattern", "", "Regex pattern for tags to exclude")
	cmd.Flags().StringVar(&sortMethod, "sort-method", "none", "Sorting method: none, lexicographical or semver")
	cmd.Flags().StringVar(&stripPrefix, "strip-prefix", "", "Regex pattern to strip from tag before semver parsing")

	return cmd
}

// buildTagQuery turns the tags flags into filters and a sorter
func buildTagQuery(search, tagPattern, excludePattern, sortMethod, stripPrefix string) (browser.TagQuery, error) {
	var query browser.TagQuery
	var filters []filter.TagFilter

	if search != "" {
		filters = append(filters, filter.NewSubstringFilter(search))
	}

	if tagPattern != "" {
		f, err := filter.NewRegexFilter(tagPattern, false)
		if err != nil {
			return query, fmt.Errorf("invalid tag pattern: %w", err)
		}
		filters = append(filters, f)
	}

	if excludePattern != "" {
		f, err := filter.NewRegexFilter(excludePattern, true)
		if err != nil {
			return query, fmt.Errorf("invalid exclude pattern: %w", err)
		}
		filters = append(filters, f)
	}

	if len(filters) > 0 {
		query.Filter = filter.NewCompositeFilter(filters...)
	}

	switch sortMethod {
	case "none", "":
	case "lexicographical":
		query.Sorter = sortpkg.NewLexicographicalSorter(false)
	case "semver":
		s, err := sortpkg.NewSemverSorter(stripPrefix)
		if err != nil {
			return query, fmt.Errorf("invalid strip-prefix pattern: %w", err)
		}
		query.Sorter = s
	default:
		return query, fmt.Errorf("invalid sort method: %s (must be 'none', 'lexicographical' or 'semver')", sortMethod)
	}

	return query, nil
}

func newInspectCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect SERVICE REPOSITORY TAG",
		Short: "Show size, platform, creation date and config of a tag",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := a.endpoint(args[0])
			if err != nil {
				return err
			}

			detail, err := a.browser.Inspect(cmd.Context(), ep, args[1], args[2])
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(detail)
			}
			renderTagDetail(cmd.OutOrStdout(), detail)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tag detail as JSON")

	return cmd
}
