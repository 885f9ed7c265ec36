package ecs_test

import (
	"fmt"

	"github.com/plus3/ecspool/ecs"
)

type GameScore struct {
	Points int
	Level  int
}

// ExampleNewSingleton demonstrates creating and accessing singleton components.
// Singletons live on the global entity and hold process-wide data such as
// game state or configuration.
func ExampleNewSingleton() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterSingleton[GameConfig](registry)
	storage := ecs.NewStorage(registry)

	config, _ := ecs.NewSingleton(storage, GameConfig{
		MaxPlayers: 4,
		Difficulty: "Normal",
	})

	fmt.Printf("Config: %d players, %s difficulty\n", config.Get().MaxPlayers, config.Get().Difficulty)

	config.Get().Difficulty = "Hard"
	fmt.Printf("Updated difficulty: %s\n", config.Get().Difficulty)

	// A second accessor finds the existing instance and ignores its initializer.
	sameConfig, _ := ecs.NewSingleton(storage, GameConfig{Difficulty: "Easy"})
	fmt.Printf("Same config: %s difficulty\n", sameConfig.Get().Difficulty)

	// Output:
	// Config: 4 players, Normal difficulty
	// Updated difficulty: Hard
	// Same config: Hard difficulty
}

// ExampleReadSingleton demonstrates reading a singleton outside of systems.
func ExampleReadSingleton() {
	storage := ecs.NewStorage(nil)

	ecs.NewSingleton(storage, GameConfig{
		MaxPlayers: 8,
		Difficulty: "Expert",
	})

	if config, ok := ecs.ReadSingleton[GameConfig](storage); ok {
		fmt.Printf("Game: %d players, %s mode\n", config.MaxPlayers, config.Difficulty)
	}

	if _, ok := ecs.ReadSingleton[GameScore](storage); ok {
		fmt.Println("Score exists")
	} else {
		fmt.Println("Score not found")
	}

	// Output:
	// Game: 8 players, Expert mode
	// Score not found
}
