package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/hireflow/hireflow/session"
	"github.com/hireflow/hireflow/stage"
	"github.com/hireflow/hireflow/supervisor"
)

func main() {
	conf := flag.String("config", "config.json", "path to config file")
	flag.Parse()
	config, err := loadConfig(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := startApp(context.Background(), config); err != nil {
		log.Fatalf("start app: %v", err)
	}
}

func startApp(ctx context.Context, config *Config) error {
	slog.SetLogLoggerLevel(slog.LevelInfo)
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  config.APIKey,
		Model:   config.Model,
		BaseURL: config.BaseURL,
	})
	if err != nil {
		return err
	}

	intentAgent, descriptionAgent, questionsAgent, err := stage.NewToolAgents(chatModel)
	if err != nil {
		return err
	}
	sup, err := supervisor.New(
		session.NewMemoryStore(),
		[]stage.Agent{intentAgent, descriptionAgent, questionsAgent},
		supervisor.WithHistoryTrimmer(session.KeepLastN{N: 50}),
	)
	if err != nil {
		return err
	}

	sess, err := sup.StartSession(ctx, "")
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Welcome to the hiring assistant. Tell me about the role you want to fill (e.g. \"Hiring a Backend Engineer at Acme\"):")
	for {
		fmt.Print("you: ")
		input, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Println("input closed, exiting.")
			break
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		reply, tErr := sup.HandleTurn(ctx, sess.ID, input)
		if tErr != nil {
			return tErr
		}
		fmt.Printf("\nassistant: %s\n======\n", reply.Message)
		if reply.Done {
			break
		}
	}
	return nil
}
