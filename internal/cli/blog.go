// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// blog.go - Blog management commands for the agentify CLI.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shahryar908/agentify-sub000/internal/api"
)

// HandleBlog dispatches the "blog" subcommands.
func HandleBlog(args Args) error {
	client := newClient(args)
	ctx := context.Background()

	switch strings.ToLower(args.Subcommand) {
	case "", "list", "ls":
		return blogList(ctx, client, args)
	case "show", "get":
		return blogShow(ctx, client, args)
	case "create":
		return blogCreate(ctx, client, args)
	case "delete", "rm":
		return blogDelete(ctx, client, args)
	case "categories":
		return blogCategories(ctx, client)
	case "tags":
		return blogTags(ctx, client)
	case "stats":
		return blogStats(ctx, client, args)
	default:
		return fmt.Errorf("unknown blog subcommand %q, try: list, show, create, delete, categories, tags, stats", args.Subcommand)
	}
}

// listOptionsFromArgs maps --flag options onto the query parameters.
func listOptionsFromArgs(args Args) api.ListPostsOptions {
	opts := api.ListPostsOptions{
		Query:     args.Options["query"],
		Category:  args.Options["category"],
		AgentType: args.Options["agent-type"],
		SortBy:    args.Options["sort-by"],
		SortOrder: args.Options["sort-order"],
	}
	if tags := args.Options["tags"]; tags != "" {
		opts.Tags = strings.Split(tags, ",")
	}
	if v, ok := args.Options["published"]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.Published = &b
		}
	}
	if v, ok := args.Options["featured"]; ok {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.Featured = &b
		}
	}
	if v, ok := args.Options["page"]; ok {
		opts.Page, _ = strconv.Atoi(v)
	}
	if v, ok := args.Options["page-size"]; ok {
		opts.PageSize, _ = strconv.Atoi(v)
	}
	return opts
}

func blogList(ctx context.Context, client *api.Client, args Args) error {
	page, err := client.ListPosts(ctx, listOptionsFromArgs(args))
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(page)
	}

	if len(page.Posts) == 0 {
		fmt.Println(DimStyle.Render("No posts."))
		return nil
	}

	fmt.Println(TitleStyle.Render("Blog Posts"))
	for _, post := range page.Posts {
		marker := " "
		if post.Featured {
			marker = "*"
		}
		fmt.Printf("%s %s %s\n", marker, HighlightStyle.Render(post.Slug), post.Title)
		fmt.Printf("    %s", DimStyle.Render(post.Category))
		if len(post.Tags) > 0 {
			fmt.Printf("  %s", DimStyle.Render(strings.Join(post.Tags, ", ")))
		}
		fmt.Println()
	}
	fmt.Println(DimStyle.Render(fmt.Sprintf("Page %d of %d (%d posts)",
		page.Page, page.TotalPages, page.Total)))
	return nil
}

func blogShow(ctx context.Context, client *api.Client, args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("usage: agentify blog show <slug>")
	}

	post, err := client.GetPost(ctx, args.Raw[0])
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return fmt.Errorf("no post with slug %q", args.Raw[0])
		}
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(post)
	}

	fmt.Println(TitleStyle.Render(post.Title))
	fmt.Printf("%s%s\n", LabelStyle.Render("Category"), post.Category)
	if len(post.Tags) > 0 {
		fmt.Printf("%s%s\n", LabelStyle.Render("Tags"), strings.Join(post.Tags, ", "))
	}
	fmt.Println()
	displayResponse(post.Content)
	return nil
}

// blogCreate reads a BlogPostInput JSON document from stdin.
func blogCreate(ctx context.Context, client *api.Client, args Args) error {
	if IsTTY() {
		return fmt.Errorf("pipe a JSON post to stdin: agentify blog create < post.json")
	}

	data, err := io.ReadAll(io.LimitReader(os.Stdin, MaxStdinSize))
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	var input api.BlogPostInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("invalid post JSON: %w", err)
	}

	post, err := client.CreatePost(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", SuccessStyle.Render("Created:"), post.Slug)
	return nil
}

func blogDelete(ctx context.Context, client *api.Client, args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("usage: agentify blog delete <slug>")
	}
	if err := client.DeletePost(ctx, args.Raw[0]); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Deleted: ") + args.Raw[0])
	return nil
}

func blogCategories(ctx context.Context, client *api.Client) error {
	categories, err := client.ListCategories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Println("  " + c)
	}
	return nil
}

func blogTags(ctx context.Context, client *api.Client) error {
	tags, err := client.ListTags(ctx)
	if err != nil {
		return err
	}
	for _, t := range tags {
		fmt.Println("  " + t)
	}
	return nil
}

func blogStats(ctx context.Context, client *api.Client, args Args) error {
	stats, err := client.Stats(ctx)
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(stats)
	}

	fmt.Println(TitleStyle.Render("Blog Statistics"))
	fmt.Printf("%s%d\n", LabelStyle.Render("Posts"), stats.TotalPosts)
	fmt.Printf("%s%d\n", LabelStyle.Render("Published"), stats.PublishedPosts)
	fmt.Printf("%s%d\n", LabelStyle.Render("Views"), stats.TotalViews)
	if len(stats.PostsByCategory) > 0 {
		fmt.Println(SectionStyle.Render("By category"))
		for category, count := range stats.PostsByCategory {
			fmt.Printf("%s%d\n", LabelStyle.Render(category), count)
		}
	}
	return nil
}
