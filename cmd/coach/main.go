// Command coach is a terminal client for the coaching server: it runs the
// full client pipeline (crisis gate, classification, streaming consumption)
// against a running coachd instance.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/fotocoach/coachd/internal/classifier"
	"github.com/fotocoach/coachd/internal/crisis"
	"github.com/fotocoach/coachd/internal/i18n"
	"github.com/fotocoach/coachd/internal/models"
	"github.com/fotocoach/coachd/internal/session"
	"github.com/fotocoach/coachd/internal/storage"
	"github.com/fotocoach/coachd/pkg/config"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/api/chat", "chat endpoint URL")
	mode := flag.String("mode", "standard", "coaching mode: standard, kaizen or trainer")
	language := flag.String("language", "en", "conversation language: en, da, sv, no or de")
	configPath := flag.String("config", "config.yaml", "config file path")
	overlayPath := flag.String("overlay", "", "learned keyword store path (overrides the config file)")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if !models.ValidMode(models.Mode(*mode)) {
		fmt.Fprintln(os.Stderr, "unsupported mode:", *mode)
		os.Exit(1)
	}
	if !models.ValidLanguage(*language) {
		fmt.Fprintln(os.Stderr, "unsupported language:", *language)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", *configPath))
	}
	path := cfg.Overlay.Path
	if *overlayPath != "" {
		path = *overlayPath
	}

	store, err := storage.NewBadgerStore(path, logger)
	if err != nil {
		logger.Fatal("Failed to open overlay store", zap.Error(err))
	}
	defer store.Close()

	clf := classifier.New(store, logger)
	det := crisis.NewDetector()
	sess := session.New(*endpoint, clf, det, models.Mode(*mode), *language, logger)

	fmt.Println("Connected. Type a message, /reclassify <category> to correct the last tag, or /quit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			return
		case strings.HasPrefix(line, "/reclassify "):
			reclassifyLast(sess, *language, strings.TrimPrefix(line, "/reclassify "))
			continue
		}

		reply, err := sess.Send(context.Background(), line)
		if err != nil {
			printSendError(err, *language)
			continue
		}
		fmt.Println(reply.Content)
		if reply.Classification != models.ClassificationUnclassified {
			fmt.Printf("[%s]\n", i18n.ClassificationLabel(*language, reply.Classification))
		}
	}
}

func printSendError(err error, language string) {
	var crisisErr *session.CrisisError
	if errors.As(err, &crisisErr) {
		fmt.Println("Your message was not sent. If you are in crisis, please reach out to a local helpline or a licensed professional right away.")
		return
	}
	var apiErr *session.APIError
	if errors.As(err, &apiErr) {
		fmt.Println(apiErr.Message)
		return
	}
	if errors.Is(err, session.ErrBusy) {
		fmt.Println("Still streaming the previous reply, one moment.")
		return
	}
	fmt.Println(i18n.ErrorMessage(language, models.ErrorUnknown))
}

// reclassifyLast corrects the tag on the most recent classified message.
func reclassifyLast(sess *session.Session, language, category string) {
	c := models.Classification(strings.TrimSpace(category))
	if c != models.ClassificationObstacle && c != models.ClassificationOutcome && c != models.ClassificationReflection {
		fmt.Println("category must be obstacle, outcome or reflection")
		return
	}
	msgs := sess.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Classification == models.ClassificationUnclassified {
			continue
		}
		if err := sess.Reclassify(msgs[i].ID, c); err != nil {
			fmt.Println("reclassify failed:", err)
			return
		}
		fmt.Printf("Tagged as %s.\n", i18n.ClassificationLabel(language, c))
		return
	}
	fmt.Println("nothing to reclassify yet")
}
