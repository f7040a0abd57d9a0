package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"previsit-triage/internal/config"
	"previsit-triage/internal/corpus"
	"previsit-triage/internal/db"
	"previsit-triage/internal/embedding"
	"previsit-triage/internal/helper"
	"previsit-triage/internal/intake"
	"previsit-triage/internal/llmservice"
	"previsit-triage/internal/rag"
	"previsit-triage/internal/vectordb"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	query := flag.String("query", "", "Free-text question to answer")
	patientFile := flag.String("patient", "", "Path to a patient intake JSON file")
	rebuild := flag.Bool("rebuild", false, "Reset the knowledge store and re-ingest the corpus")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Warn().Err(err).Msg("Config file not loaded, using defaults")
		cfg = config.Default()
	}

	ctx := context.Background()

	embedder := embedding.NewWithFallback(&cfg.EmbedLLM)
	store := openStore(ctx, cfg, embedder)
	defer store.Close()

	if *rebuild {
		if err := store.Reset(ctx); err != nil {
			log.Fatal().Err(err).Msg("Error resetting knowledge store")
		}
	}

	loader := corpus.NewLoader(cfg.DataDir, cfg.SupplementsDir, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err := vectordb.Setup(ctx, store, loader); err != nil {
		log.Fatal().Err(err).Msg("Error setting up knowledge store")
	}

	var gen rag.Generator
	if cfg.GenLLM.Enabled {
		gen = llmservice.NewClient(&cfg.GenLLM)
	}
	pipeline := rag.NewPipeline(store, gen, cfg.Hospital, cfg.RAG.TopK)

	switch {
	case *query != "":
		answerQuery(ctx, pipeline, *query)
	case *patientFile != "":
		runIntake(ctx, pipeline, cfg, *patientFile)
	default:
		stats, err := store.Stats(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Error reading store stats")
		}
		log.Info().
			Int("documents", stats.DocumentCount).
			Str("collection", stats.Collection).
			Str("embedding_model", stats.EmbeddingModel).
			Msg("Knowledge store ready")
	}
}

func openStore(ctx context.Context, cfg *config.Config, embedder embedding.Embedder) vectordb.Store {
	switch cfg.Store.Backend {
	case "postgres":
		conn, err := db.Connect(&cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Error connecting to database")
		}
		store, err := db.NewPGStore(ctx, conn, &cfg.Database, cfg.Store.Collection, embedder)
		if err != nil {
			log.Fatal().Err(err).Msg("Error initializing postgres store")
		}
		return store
	default:
		store, err := vectordb.NewChromemStore(cfg.Store.DBPath, cfg.Store.Collection, cfg.Store.InMemory, embedder)
		if err != nil {
			log.Fatal().Err(err).Msg("Error opening knowledge store")
		}
		return store
	}
}

func answerQuery(ctx context.Context, pipeline *rag.Pipeline, query string) {
	response, err := pipeline.Answer(ctx, query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error answering query")
	}

	fmt.Printf("Query: %s\n\n", query)
	fmt.Printf("Answer (confidence %.2f):\n%s\n\n", response.Confidence, response.Answer)
	if response.Triage != nil {
		fmt.Printf("Triage hint: %s / %s / priority %d\n\n",
			response.Triage.UrgencyLevel, response.Triage.Department, response.Triage.Priority)
	}
	for _, step := range response.NextSteps {
		fmt.Printf("- %s\n", step)
	}
}

// patientInput mirrors the structured intake calls for the file-driven flow.
type patientInput struct {
	Age               int      `json:"age"`
	Gender            string   `json:"gender"`
	ChiefComplaint    string   `json:"chief_complaint"`
	Symptoms          []string `json:"symptoms"`
	Duration          string   `json:"duration"`
	Severity          string   `json:"severity"`
	Location          string   `json:"location"`
	MedicalHistory    []string `json:"medical_history"`
	Medications       []string `json:"medications"`
	Allergies         []string `json:"allergies"`
	InsuranceProvider string   `json:"insurance_provider"`
	InsuranceMemberID string   `json:"insurance_member_id"`
	Phone             string   `json:"phone"`
	Email             string   `json:"email"`
	PreferredTime     string   `json:"preferred_time"`
	UrgencyPerception string   `json:"urgency_perception"`
}

func runIntake(ctx context.Context, pipeline *rag.Pipeline, cfg *config.Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading patient file")
	}
	var in patientInput
	if err := json.Unmarshal(data, &in); err != nil {
		log.Fatal().Err(err).Msg("Error parsing patient file")
	}

	engine := intake.NewEngine(pipeline, cfg.Hospital)
	sessionID := engine.StartIntake()

	if _, err := engine.CollectBasicInfo(sessionID, in.Age, in.Gender); err != nil {
		log.Fatal().Err(err).Msg("Error collecting basic info")
	}
	if err := engine.CollectSymptoms(sessionID, in.ChiefComplaint, in.Symptoms, in.Duration, in.Severity, in.Location); err != nil {
		log.Fatal().Err(err).Msg("Error collecting symptoms")
	}
	if err := engine.CollectMedicalHistory(sessionID, in.MedicalHistory, in.Medications, in.Allergies); err != nil {
		log.Fatal().Err(err).Msg("Error collecting medical history")
	}
	if in.InsuranceProvider != "" {
		if err := engine.CollectInsuranceInfo(sessionID, in.InsuranceProvider, in.InsuranceMemberID); err != nil {
			log.Fatal().Err(err).Msg("Error collecting insurance info")
		}
	}
	if in.Phone != "" {
		if err := engine.CollectContactInfo(sessionID, in.Phone, in.Email); err != nil {
			log.Fatal().Err(err).Msg("Error collecting contact info")
		}
	}
	if in.PreferredTime != "" || in.UrgencyPerception != "" {
		if err := engine.CollectPreferences(sessionID, in.PreferredTime, in.UrgencyPerception); err != nil {
			log.Fatal().Err(err).Msg("Error collecting preferences")
		}
	}

	plan, err := engine.GenerateVisitPlan(ctx, sessionID)
	if err != nil {
		log.Fatal().Err(err).Msg("Error generating visit plan")
	}

	log.Info().Str("summary", plan.VisitSummary).Msg("Visit plan generated")
	helper.PrettyPrint(plan)
}
