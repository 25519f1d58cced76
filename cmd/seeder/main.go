package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/gclub/matchpoint/internal/club"
	"github.com/gclub/matchpoint/internal/database"
	"github.com/gclub/matchpoint/internal/score"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":        "seed.db",
		"MIGRATIONS_DIR": "./migrations",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

var seedPlayers = []club.PlayerInfo{
	{ID: "player-1", Name: "Seeder Player A", IsActive: true, IsMember: true},
	{ID: "player-2", Name: "Seeder Player B", IsActive: true, IsMember: true},
	{ID: "player-3", Name: "Seeder Player C", IsActive: true, IsMember: true},
	{ID: "player-4", Name: "Seeder Player D", IsActive: true, IsMember: true},
	{ID: "player-5", Name: "Seeder Player E", IsActive: true, IsMember: true},
	{ID: "player-6", Name: "Seeder Player F", IsActive: true, IsMember: true},
	{ID: "player-7", Name: "Seeder Player G", IsActive: true, IsMember: true},
	{ID: "player-8", Name: "Seeder Player H", IsActive: true, IsMember: false},
}

var seedScores = []string{"8-0", "8-2", "8-6", "7-1", "6-2", "2-8", "4-8", "1-7", "7-6 6-4", "4-6 6-8"}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db, teardown, err := database.InitDB(cfg["DB_NAME"], "", "", cfg["MIGRATIONS_DIR"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	store := club.New(db)

	for _, p := range seedPlayers {
		if err := store.UpsertPlayer(p); err != nil {
			log.Fatalf("Failed to insert seed player %s: %s", p.Name, err)
		}
	}
	log.Info("Ensured seed players exist.")

	const seasonDays = 90

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	startTime := time.Now()
	booked, completed := 0, 0

	for day := seasonDays; day >= 1; day-- {
		date := time.Now().AddDate(0, 0, -day).Format("2006-01-02")

		// Shuffle the roster once per day so pairings vary.
		roster := make([]club.PlayerInfo, len(seedPlayers))
		copy(roster, seedPlayers)
		rng.Shuffle(len(roster), func(i, j int) { roster[i], roster[j] = roster[j], roster[i] })

		for slotIdx, slot := range club.Slots {
			// Not every slot is played every day.
			if rng.Intn(3) == 0 {
				continue
			}
			offset := (slotIdx * 4) % len(roster)
			var players [4]string
			for i := 0; i < 4; i++ {
				players[i] = roster[(offset+i)%len(roster)].ID
			}

			m, err := store.InsertMatch(date, slot, players)
			if err != nil {
				if club.IsConflict(err) {
					continue
				}
				log.Fatalf("Failed to insert seed match: %s", err)
			}
			booked++

			raw := seedScores[rng.Intn(len(seedScores))]
			winner := score.InferWinner(raw)
			comeback := rng.Intn(10) == 0
			tiebreak := rng.Intn(8) == 0
			if _, err := store.UpdateMatchOutcome(m.ID, raw, int(winner), comeback, tiebreak); err != nil {
				log.Fatalf("Failed to complete seed match: %s", err)
			}
			completed++

			// An occasional double point, silently skipped when the window is held.
			if rng.Intn(6) == 0 {
				if _, err := store.UpdatePlayerMatchFlag(m.ID, players[0], club.FlagDoublePoint, true); err != nil && !club.IsLocked(err) {
					log.Fatalf("Failed to set seed flag: %s", err)
				}
			}
		}
	}

	log.Info("Seeding finished.", "booked", booked, "completed", completed, "duration", time.Since(startTime))
}
