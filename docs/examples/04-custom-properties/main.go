package main

import (
	"fmt"
	"log"

	tmx "github.com/mapwright/tmx/pkg/v1"
)

func main() {
	parser := tmx.NewParser()
	m, err := parser.Parse("overworld.tmx")
	if err != nil {
		log.Fatal(err)
	}

	// Map-level properties
	if biome, ok := m.Properties().GetString("biome"); ok {
		fmt.Printf("Biome: %s\n", biome)
	}

	// Object properties come back typed: string, int, float64, bool, or
	// a nested Properties for class values. Objects created from a
	// template see the template's values with their own overrides applied.
	spawns := m.ObjectGroup("spawns")
	if spawns == nil {
		log.Fatal("no spawns layer")
	}

	for _, obj := range spawns.Objects() {
		props := obj.Properties()

		hp, _ := props.GetInt("hp")
		speed, _ := props.GetFloat("speed")
		elite, _ := props.GetBool("elite")

		fmt.Printf("%s: hp=%d speed=%.1f elite=%v\n",
			obj.Name(), hp, speed, elite)

		// Nested class properties stay a bag
		if loot, ok := props.GetClass("loot"); ok {
			gold, _ := loot.GetInt("gold")
			fmt.Printf("  drops %d gold\n", gold)
		}
	}
}
