package service

import (
	"fmt"
	"log"

	"codeclash/internal/models"
	"codeclash/internal/repository"
)

// SeedDefaultLevels creates the starter curriculum if the level store
// is empty. Levels are keyed by (language, sequence); an existing
// catalog is left untouched.
func SeedDefaultLevels(levelRepo *repository.LevelRepository) error {
	count, err := levelRepo.CountLevels()
	if err != nil {
		return fmt.Errorf("failed to check level catalog: %w", err)
	}
	if count > 0 {
		log.Printf("Level catalog already has %d levels, skipping seed", count)
		return nil
	}

	log.Println("Seeding default level catalog...")
	for _, level := range defaultLevels {
		if _, err := levelRepo.CreateLevel(&level); err != nil {
			return fmt.Errorf("failed to seed level %q: %w", level.Title, err)
		}
	}
	log.Printf("Seeded %d default levels", len(defaultLevels))
	return nil
}

var defaultLevels = []models.Level{
	{
		Title:      "Hello, printer",
		Language:   "python",
		Sequence:   1,
		Difficulty: "Easy",
		CanonicalLines: []string{
			`name = "Ada"`,
			`print("Hello,", name)`,
		},
		Distractors:  []string{`print(name)`},
		StrategyHint: "A variable has to exist before anything can print it.",
	},
	{
		Title:      "Counting apples",
		Language:   "python",
		Sequence:   2,
		Difficulty: "Easy",
		CanonicalLines: []string{
			`apples = 3`,
			`baskets = 2`,
			`total = apples * baskets`,
			`print("Total:", total)`,
		},
		Distractors:  []string{`total = apples + baskets`},
		StrategyHint: "Multiply before you print; each basket holds the same count.",
	},
	{
		Title:      "Greeting with an f-string",
		Language:   "python",
		Sequence:   3,
		Difficulty: "Medium",
		CanonicalLines: []string{
			`first = "Grace"`,
			`last = "Hopper"`,
			`print(f"Welcome, {first} {last}")`,
		},
		Distractors:  []string{`print(f"Welcome, {last}")`, `name = first`},
		StrategyHint: "Both names go inside one message.",
	},
	{
		Title:      "Temperature check",
		Language:   "python",
		Sequence:   4,
		Difficulty: "Hard",
		CanonicalLines: []string{
			`celsius = 25`,
			`fahrenheit = celsius * 9 / 5 + 32`,
			`print("It is", fahrenheit, "degrees")`,
		},
		Distractors:  []string{`fahrenheit = celsius + 32`, `print(celsius)`},
		StrategyHint: "The conversion multiplies before it adds.",
	},
	{
		Title:      "First log",
		Language:   "javascript",
		Sequence:   1,
		Difficulty: "Easy",
		CanonicalLines: []string{
			`let city = "Paris";`,
			`console.log("Visiting", city);`,
		},
		Distractors:  []string{`console.log(city);`},
		StrategyHint: "Declare the variable, then log it.",
	},
	{
		Title:      "Template greeting",
		Language:   "javascript",
		Sequence:   2,
		Difficulty: "Medium",
		CanonicalLines: []string{
			"let hero = \"Turing\";",
			"let year = 1936;",
			"console.log(`${hero} published in ${year}`);",
		},
		Distractors:  []string{"console.log(hero + year);"},
		StrategyHint: "The backtick string mentions both values.",
	},
	{
		Title:      "Allowance math",
		Language:   "javascript",
		Sequence:   3,
		Difficulty: "Hard",
		CanonicalLines: []string{
			`const weekly = 5;`,
			`const weeks = 4;`,
			`const saved = weekly * weeks;`,
			`console.log("Saved:", saved);`,
		},
		Distractors:  []string{`const saved = weekly + weeks;`, `console.log(weekly);`},
		StrategyHint: "Savings grow by multiplication, not addition.",
	},
	{
		Title:      "Println basics",
		Language:   "java",
		Sequence:   1,
		Difficulty: "Easy",
		CanonicalLines: []string{
			`String planet = "Mars";`,
			`System.out.println("Next stop: " + planet);`,
		},
		Distractors:  []string{`System.out.println(planet);`},
		StrategyHint: "The String declaration comes first.",
	},
	{
		Title:      "Speed calculation",
		Language:   "java",
		Sequence:   2,
		Difficulty: "Medium",
		CanonicalLines: []string{
			`int distance = 120;`,
			`int hours = 2;`,
			`int speed = distance / hours;`,
			`System.out.println("Speed: " + speed);`,
		},
		Distractors:  []string{`int speed = distance * hours;`},
		StrategyHint: "Speed divides distance by time.",
	},
}
