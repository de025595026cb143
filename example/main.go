package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/mickamy/osfadapter/adapter"
	"github.com/mickamy/osfadapter/example/repo"
	"github.com/mickamy/osfadapter/internal/config"
	"github.com/mickamy/osfadapter/jsonapi"
	"github.com/mickamy/osfadapter/model"
	"github.com/mickamy/osfadapter/scope"
	"github.com/mickamy/osfadapter/store"
)

type stdLogger struct{}

func (stdLogger) Log(_ context.Context, method, url string, body []byte) {
	log.Printf("%s %s %s", method, url, body)
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	providerID := flag.String("provider", "osf", "preprint provider id")
	title := flag.String("submit", "", "title of a preprint to submit (requires a token)")
	debug := flag.Bool("debug", false, "log every request")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	transport := adapter.NewHTTPTransport(&http.Client{Timeout: cfg.Timeout}, adapter.TokenAuthorizer(cfg.Token))
	api := adapter.New(transport, adapter.Config{Host: cfg.Host, Namespace: cfg.Namespace})
	if *debug {
		api = api.Debug(stdLogger{})
	}
	st := store.New(store.WithSerializer(jsonapi.Serializer{}), store.WithSchemas(model.Schemas()...))
	providers := repo.NewPreprintProviderRepository(api, st)

	// LIST
	fmt.Println("--- PROVIDERS ---")
	all, err := providers.FindAll(ctx, scope.PageSize(5))
	if err != nil {
		log.Fatalf("find all: %v", err)
	}
	for _, p := range all {
		fmt.Printf("  %s: %v\n", p.ID(), p.Attr("name"))
	}

	// FIND
	fmt.Println("\n--- FIND ---")
	provider, err := providers.FindByID(ctx, *providerID)
	if err != nil {
		log.Fatalf("find %s: %v", *providerID, err)
	}
	fmt.Printf("%s: %v (%d preprints loaded)\n", provider.ID(), provider.Attr("name"), len(provider.Related("preprints")))

	if *title == "" {
		return
	}

	// SUBMIT
	fmt.Println("\n--- SUBMIT ---")
	if _, err := providers.Submit(ctx, provider, *title); err != nil {
		log.Fatalf("submit: %v", err)
	}
	fmt.Printf("Submitted %q; dirty relationships: %v\n", *title, provider.DirtyRelationships())
}
