package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"idea-generator-api/internal/client"
)

const prompt = "topic> "

// runInteractive 逐行读取主题；空行不提交，quit/exit 退出
func runInteractive(ctx context.Context, gen client.Generator, in io.Reader, out io.Writer) error {
	form := client.NewFormController(gen, func(s client.State) {
		switch s.Phase {
		case client.PhaseLoading:
			fmt.Fprintln(out, "Generating...")
		case client.PhaseSuccess:
			fmt.Fprintf(out, "\n%s\n\n", s.Ideas())
		case client.PhaseFailure:
			fmt.Fprintf(out, "Error: %s\n", s.Error())
		}
	})

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, prompt)
	for scanner.Scan() {
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "quit", "exit":
			return nil
		}

		form.SetTopic(line)
		if form.CanSubmit() {
			if err := form.Submit(ctx); err != nil {
				fmt.Fprintf(out, "Error: %s\n", err)
			}
		}
		fmt.Fprint(out, prompt)
	}
	return scanner.Err()
}
