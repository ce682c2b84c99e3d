package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/Marketplacesearch/internal/app"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/Marketplacesearch/internal/infrastructure/observability"
	"github.com/zatekoja/Marketplacesearch/pkg/config"
)

const foodModule = 1

type customSynonym struct {
	term     string
	synonyms []string
	moduleID *int
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger(cfg.OTEL.ServiceName+"-seed", cfg.Environment, cfg.LogLevel)

	ctx := context.Background()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}
	defer pgClient.Close()

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				custom_synonyms,
				learned_corrections,
				interactions,
				similarity_edges,
				recommendation_feedback
			RESTART IDENTITY
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}
	defer a.Close(ctx)

	// 1. Custom synonyms
	food := foodModule
	synonyms := []customSynonym{
		{term: "momos", synonyms: []string{"dumplings", "dimsum"}},
		{term: "roll", synonyms: []string{"kathi roll", "wrap"}, moduleID: &food},
		{term: "cold coffee", synonyms: []string{"iced coffee", "frappe"}, moduleID: &food},
		{term: "atta", synonyms: []string{"chakki atta"}},
	}
	if err := seedCustomSynonyms(ctx, pgClient, synonyms); err != nil {
		log.Error().Err(err).Msg("failed to seed custom synonyms")
	}

	// 2. Learned corrections; "biriyani" is reinforced past the apply threshold
	corrections := []struct {
		misspelling, correction string
		times                   int
	}{
		{"biriyani", "biryani", 3},
		{"panner", "paneer", 2},
		{"dosai", "dosa", 1},
	}
	for _, c := range corrections {
		for i := 0; i < c.times; i++ {
			if err := a.Corrections.LearnCorrection(ctx, c.misspelling, c.correction, nil); err != nil {
				log.Error().Err(err).Str("misspelling", c.misspelling).Msg("failed to learn correction")
			}
		}
	}

	// 3. Interactions: small baskets that overlap so co-purchase edges appear
	baskets := map[string][]string{
		"user-1": {"veg-biryani", "raita", "gulab-jamun"},
		"user-2": {"veg-biryani", "raita", "masala-chai"},
		"user-3": {"vada-pav", "masala-chai", "samosa"},
		"user-4": {"vada-pav", "samosa", "raita"},
		"user-5": {"paneer-tikka", "butter-naan", "veg-biryani"},
		"user-6": {"paneer-tikka", "butter-naan", "gulab-jamun"},
	}
	var recorded int
	for user, products := range baskets {
		session := fmt.Sprintf("seed-%s-%d", user, time.Now().Unix())
		for _, product := range products {
			for _, kind := range []entities.InteractionKind{
				entities.InteractionView,
				entities.InteractionView,
				entities.InteractionAddToCart,
				entities.InteractionPurchase,
			} {
				if err := a.Interactions.Record(ctx, entities.InteractionInput{
					UserID:    user,
					ProductID: product,
					Kind:      kind,
					SessionID: &session,
					ModuleID:  &food,
				}); err != nil {
					log.Error().Err(err).Str("user_id", user).Msg("invalid interaction")
					continue
				}
				recorded++
			}
		}
	}
	log.Info().Int("interactions", recorded).Msg("seeded interactions")

	// 4. Similarity edges from the seeded purchases
	summaries, err := a.Similarity.RecomputeAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to recompute similarity")
	}
	for _, s := range summaries {
		log.Info().Str("kind", string(s.Kind)).Int("edges", s.Edges).Msg("seeded similarity edges")
	}

	log.Info().Msg("seeding complete")
}

func seedCustomSynonyms(ctx context.Context, client *postgres.Client, entries []customSynonym) error {
	now := time.Now().UTC()
	rows := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		var module interface{}
		if e.moduleID != nil {
			module = *e.moduleID
		}
		rows = append(rows, goqu.Record{
			"term":       e.term,
			"synonyms":   pq.Array(e.synonyms),
			"module_id":  module,
			"active":     true,
			"created_at": now,
			"updated_at": now,
		})
	}

	query, args, err := goqu.Dialect("postgres").
		Insert("custom_synonyms").
		Rows(rows...).
		OnConflict(goqu.DoNothing()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build custom synonym insert: %w", err)
	}

	res, err := client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert custom synonyms: %w", err)
	}
	n, _ := res.RowsAffected()
	log.Info().Int64("rows", n).Msg("seeded custom synonyms")
	return nil
}
