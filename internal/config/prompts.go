package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// InteractiveProjectPrompt walks the user through a new modx.yml.
func InteractiveProjectPrompt(reader *bufio.Reader, out io.Writer) *ProjectConfig {
	cfg := &ProjectConfig{Version: "1.0"}

	fmt.Fprintln(out, "\n✨ modx project setup ✨")

	fmt.Fprintf(out, "%s Default org alias (leave empty to pass --target-org each time): ", EmojiInput)
	cfg.DefaultOrg = readLine(reader)

	fmt.Fprintf(out, "%s API version ", EmojiInput)
	cfg.APIVersion = readInputWithDefault(reader, out, DefaultAPIVersion)

	if promptYesNo(reader, out, "Tune deploy polling?", false) {
		fmt.Fprintf(out, "%s Poll interval ", EmojiInput)
		for {
			raw := readInputWithDefault(reader, out, DefaultPollInterval.String())
			if d, err := time.ParseDuration(raw); err == nil && d > 0 {
				cfg.Deploy.PollInterval = raw
				break
			}
			fmt.Fprintf(out, "%s Please enter a duration such as 2s\n", EmojiWarning)
		}
		fmt.Fprintf(out, "%s Give up after how many polls? 0 waits forever ", EmojiInput)
		n, err := strconv.Atoi(readInputWithDefault(reader, out, "0"))
		if err == nil && n > 0 {
			cfg.Deploy.MaxPolls = n
		}
	}

	fmt.Fprintf(out, "%s Static resource folder ", EmojiInput)
	cfg.StaticResources.Folder = readInputWithDefault(reader, out, DefaultResourceFolder)
	fmt.Fprintf(out, "%s Cache control for new static resources (public/private) ", EmojiInput)
	cfg.StaticResources.CacheControl = readInputWithDefault(reader, out, DefaultCacheControl)

	ShowProjectSummary(out, cfg)
	return cfg
}

func ShowProjectSummary(out io.Writer, cfg *ProjectConfig) {
	fmt.Fprintln(out, "\n"+strings.Repeat("=", 50))
	fmt.Fprintln(out, "🎉 Configuration Summary")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	org := cfg.DefaultOrg
	if org == "" {
		org = "(none)"
	}
	fmt.Fprintf(out, "\n🔑 Default org: %s\n", org)
	fmt.Fprintf(out, "🧭 API version: %s\n", cfg.APIVersion)
	if cfg.Deploy.PollInterval != "" {
		fmt.Fprintf(out, "⏱️  Poll every %s", cfg.Deploy.PollInterval)
		if cfg.Deploy.MaxPolls > 0 {
			fmt.Fprintf(out, ", at most %d times", cfg.Deploy.MaxPolls)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "🗂️  Static resources: %s (%s)\n", cfg.StaticResources.Folder, cfg.StaticResources.CacheControl)

	fmt.Fprintln(out, "\n"+strings.Repeat("=", 50))
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func readInputWithDefault(reader *bufio.Reader, out io.Writer, defaultValue string) string {
	fmt.Fprintf(out, "(default: %s) > ", defaultValue)
	if input := readLine(reader); input != "" {
		return input
	}
	return defaultValue
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string, defaultYes bool) bool {
	options := "(y/N)"
	if defaultYes {
		options = "(Y/n)"
	}

	for {
		fmt.Fprintf(out, "%s %s %s: ", EmojiQuestion, question, options)
		answer, err := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))

		switch answer {
		case "":
			return defaultYes
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		if err != nil {
			return defaultYes
		}
		fmt.Fprintf(out, "%s Please answer with 'y' or 'n'\n", EmojiWarning)
	}
}
