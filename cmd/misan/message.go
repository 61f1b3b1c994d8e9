package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cortesi/misanthropy"
	"github.com/cortesi/misanthropy/internal/config"
	"github.com/cortesi/misanthropy/internal/session"
)

// messageOptions holds flags for the message subcommand.
type messageOptions struct {
	// Model overrides the default model; config aliases apply.
	Model string
	// MaxTokens overrides the default output budget.
	MaxTokens int
	// Temperature sets sampling temperature when the flag is given.
	Temperature float64
	// Stream requests a live event stream instead of a single response.
	Stream bool
	// System adds a system prompt block.
	System string
	// Images are file paths attached as image blocks before the prompt.
	Images []string
	// StopSequences are custom strings that end generation.
	StopSequences []string
	// ThinkingBudget enables extended thinking with the given token budget.
	ThinkingBudget int
	// NoSave disables transcript persistence for this run.
	NoSave bool
}

// messageCommand sends a prompt and prints the response.
func messageCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &messageOptions{}
	cmd := &cobra.Command{
		Use:   "message [prompt...]",
		Short: "Send a message and print the response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMessage(cmd, rootOpts, opts, args)
		},
	}

	applyMessageFlags(cmd.Flags(), opts)
	return cmd
}

// applyMessageFlags defines the message subcommand flags.
func applyMessageFlags(flags *pflag.FlagSet, opts *messageOptions) {
	flags.StringVar(&opts.Model, "model", "", "Model to generate with")
	flags.IntVar(&opts.MaxTokens, "max-tokens", 0, "Maximum output tokens")
	flags.Float64Var(&opts.Temperature, "temperature", 0, "Sampling temperature")
	flags.BoolVar(&opts.Stream, "stream", false, "Stream the response as it is generated")
	flags.StringVar(&opts.System, "system", "", "System prompt")
	flags.StringArrayVar(&opts.Images, "image", nil, "Image file to attach (repeatable)")
	flags.StringArrayVar(&opts.StopSequences, "stop", nil, "Custom stop sequence (repeatable)")
	flags.IntVar(&opts.ThinkingBudget, "thinking", 0, "Extended thinking token budget")
	flags.BoolVar(&opts.NoSave, "no-save", false, "Do not save a transcript for this run")
}

// runMessage builds the request, sends it and renders the result.
func runMessage(cmd *cobra.Command, rootOpts *rootOptions, opts *messageOptions, args []string) error {
	cfg, err := config.Load(rootOpts.ConfigPath)
	if err != nil {
		return err
	}
	client, err := buildClient(rootOpts, cfg)
	if err != nil {
		return err
	}

	request, err := buildRequest(cmd, cfg, opts, args)
	if err != nil {
		return err
	}
	rootOpts.debugf("sending request to model %q (stream=%v)", client.Model(), opts.Stream)

	ctx := cmd.Context()
	var response *misanthropy.MessagesResponse
	if opts.Stream {
		response, err = streamMessage(ctx, rootOpts, client, request)
	} else {
		response, err = client.Messages(ctx, request)
		if err == nil {
			fmt.Println(renderMarkdown(response.FormatContent()))
		}
	}
	if err != nil {
		return err
	}

	reportUsage(rootOpts, response)
	if !opts.NoSave {
		saveTranscript(rootOpts, request, response)
	}
	return nil
}

// buildRequest assembles the MessagesRequest from flags and arguments.
func buildRequest(cmd *cobra.Command, cfg *config.Config, opts *messageOptions, args []string) (misanthropy.MessagesRequest, error) {
	request := misanthropy.MessagesRequest{}.WithStream(opts.Stream)
	if model := cfg.ResolveModel(opts.Model); model != "" {
		request = request.WithModel(model)
	}
	if opts.MaxTokens > 0 {
		request = request.WithMaxTokens(opts.MaxTokens)
	}
	if cmd.Flags().Changed("temperature") {
		request = request.WithTemperature(opts.Temperature)
	}
	if opts.ThinkingBudget > 0 {
		request = request.WithThinking(opts.ThinkingBudget)
	}
	if len(opts.StopSequences) > 0 {
		request = request.WithStopSequences(opts.StopSequences...)
	}
	if opts.System != "" {
		request.AddSystem(misanthropy.Text(opts.System))
	}

	for _, path := range opts.Images {
		image, err := misanthropy.ImageFromFile(path)
		if err != nil {
			return misanthropy.MessagesRequest{}, err
		}
		request.AddUser(image)
	}
	request.AddUser(misanthropy.Text(strings.Join(args, " ")))
	return request, nil
}

// streamMessage consumes a live event stream, printing deltas as they
// arrive, and returns the fully merged response.
func streamMessage(ctx context.Context, rootOpts *rootOptions, client *misanthropy.Client, request misanthropy.MessagesRequest) (*misanthropy.MessagesResponse, error) {
	stream, err := client.MessagesStream(ctx, request)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	thinkingOpen := false
	for {
		event, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if misanthropy.IsKind(err, misanthropy.ErrResponseParse) {
				// A malformed event does not end the stream; keep pulling.
				rootOpts.warnf("skipping malformed event: %v", err)
				continue
			}
			return nil, err
		}

		switch event.Type {
		case misanthropy.EventContentBlockStart:
			if event.ContentBlock != nil && event.ContentBlock.Type == misanthropy.ContentTypeThinking {
				fmt.Println(sectionStyle.Render("--- Thinking ---"))
				thinkingOpen = true
			} else if thinkingOpen {
				fmt.Println()
				fmt.Println(sectionStyle.Render("--- Response ---"))
				thinkingOpen = false
			}
		case misanthropy.EventContentBlockDelta:
			if event.Delta == nil {
				continue
			}
			switch event.Delta.Type {
			case misanthropy.DeltaTypeText:
				fmt.Print(event.Delta.Text)
			case misanthropy.DeltaTypeThinking:
				fmt.Print(thinkingStyle.Render(event.Delta.Thinking))
			}
		case misanthropy.EventMessageStop:
			fmt.Println()
		}
	}

	for _, anomaly := range stream.Anomalies() {
		rootOpts.debugf("merge anomaly at index %d: %s", anomaly.Index, anomaly.Reason)
	}
	return &stream.Response, nil
}

// reportUsage prints token accounting at -v and above.
func reportUsage(rootOpts *rootOptions, response *misanthropy.MessagesResponse) {
	usage := response.Usage
	input, output := 0, 0
	if usage.InputTokens != nil {
		input = *usage.InputTokens
	}
	if usage.OutputTokens != nil {
		output = *usage.OutputTokens
	}
	rootOpts.infof("usage: %d input tokens, %d output tokens", input, output)
}

// transcriptRecord is one JSONL line of a saved transcript.
type transcriptRecord struct {
	// Type marks the record as request or response.
	Type string `json:"type"`
	// Request is set on request records.
	Request *misanthropy.MessagesRequest `json:"request,omitempty"`
	// Response is set on response records.
	Response *misanthropy.MessagesResponse `json:"response,omitempty"`
}

// saveTranscript persists the exchange under a fresh session id.
// Failures are reported but never fail the run.
func saveTranscript(rootOpts *rootOptions, request misanthropy.MessagesRequest, response *misanthropy.MessagesResponse) {
	store, err := session.NewStore()
	if err != nil {
		rootOpts.warnf("transcript not saved: %v", err)
		return
	}
	sessionID := uuid.New().String()
	if err := store.AppendEvent(sessionID, transcriptRecord{Type: "request", Request: &request}); err != nil {
		rootOpts.warnf("transcript not saved: %v", err)
		return
	}
	if err := store.AppendEvent(sessionID, transcriptRecord{Type: "response", Response: response}); err != nil {
		rootOpts.warnf("transcript not saved: %v", err)
		return
	}
	rootOpts.infof("transcript saved as %s", sessionID)
}
