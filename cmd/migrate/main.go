package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/healthbuzzonline/post-gateway/internal/config"
	"github.com/healthbuzzonline/post-gateway/internal/contentsource"
	"github.com/healthbuzzonline/post-gateway/internal/migration/schemas"
)

var (
	schemaVersion = flag.String("schema", "", "Versão do schema (default: a mais recente)")
	collection    = flag.String("collection", "", "Collection alvo (default: TYPESENSE_COLLECTION)")
	drop          = flag.Bool("drop", false, "Remove a collection antes de recriá-la")
	jsonOutput    = flag.Bool("json", false, "Saída em formato JSON")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Uso: %s <comando> [opções]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Comandos disponíveis:\n")
		fmt.Fprintf(os.Stderr, "  ensure    Cria a collection espelho de posts caso não exista\n")
		fmt.Fprintf(os.Stderr, "  schemas   Lista os schemas disponíveis\n")
		fmt.Fprintf(os.Stderr, "\nOpções:\n")
		flag.PrintDefaults()
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	command := os.Args[1]
	os.Args = append(os.Args[:1], os.Args[2:]...)
	flag.Parse()

	registry := schemas.NewRegistry()

	switch command {
	case "ensure":
		cmdEnsure(registry)
	case "schemas":
		cmdSchemas(registry)
	default:
		fmt.Fprintf(os.Stderr, "Comando desconhecido: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func cmdEnsure(registry *schemas.Registry) {
	cfg, err := config.LoadConfig()
	if err != nil {
		fatalf("Erro ao carregar configuração: %v", err)
	}
	if cfg.Typesense.APIKey == "" {
		fatalf("Erro: TYPESENSE_API_KEY é obrigatório")
	}

	version := *schemaVersion
	if version == "" {
		version = registry.GetCurrentVersion()
	}
	schema, err := registry.GetSchema(version)
	if err != nil {
		fatalf("Erro: %v", err)
	}

	name := *collection
	if name == "" {
		name = cfg.Typesense.Collection
	}

	// Timeout maior para operações de schema
	client := contentsource.NewTypesenseClient(cfg.Typesense.ServerURL(), cfg.Typesense.APIKey, 2*time.Minute)
	source := contentsource.NewTypesenseSource(client, name, 2*time.Minute)

	ctx := context.Background()

	if *drop {
		fmt.Printf("Removendo collection %s\n", name)
		if err := source.DropCollection(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Aviso: %v\n", err)
		}
	}

	created, err := source.EnsureCollection(ctx, schema.CollectionSchema(name))
	if err != nil {
		fatalf("Erro ao criar collection: %v", err)
	}

	result := map[string]any{
		"collection": name,
		"schema":     version,
		"created":    created,
	}
	if *jsonOutput {
		printJSON(result)
		return
	}

	if created {
		fmt.Printf("Collection %s criada com schema %s\n", name, version)
	} else {
		fmt.Printf("Collection %s já existe, nada a fazer\n", name)
	}
}

func cmdSchemas(registry *schemas.Registry) {
	versions := registry.ListVersions()

	if *jsonOutput {
		printJSON(map[string]any{
			"current":  registry.GetCurrentVersion(),
			"versions": versions,
		})
		return
	}

	fmt.Println("Schemas disponíveis:")
	for _, version := range versions {
		schema, _ := registry.GetSchema(version)
		marker := "  "
		if version == registry.GetCurrentVersion() {
			marker = "* "
		}
		fmt.Printf("%s%s (%d campos, ordenação por %s)\n", marker, version, len(schema.Fields), schema.SortingField)
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatalf("Erro ao serializar JSON: %v", err)
	}
	fmt.Println(string(data))
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
