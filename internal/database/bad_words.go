package database

import (
	"bufio"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

const badWordsURL = "https://raw.githubusercontent.com/LDNOOBW/List-of-Dirty-Naughty-Obscene-and-Otherwise-Bad-Words/refs/heads/master/en"

// SeedBadWords populates the profanity table used to screen learner
// display names. The download runs once; a populated table is left
// alone.
func (db *DB) SeedBadWords() error {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM bad_words").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check bad words count: %w", err)
	}

	if count > 0 {
		log.Printf("Display-name filter already populated with %d words", count)
		return nil
	}

	log.Println("Downloading display-name word filter...")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(badWordsURL)
	if err != nil {
		return fmt.Errorf("failed to download bad words list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status code from bad words URL: %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	wordsAdded := 0

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(db.Dialect.RewriteQuery("INSERT INTO bad_words (word) VALUES (?)"))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for scanner.Scan() {
		word := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if word == "" {
			continue
		}

		// Duplicates just get skipped; the unique index holds the set.
		if _, err := stmt.Exec(word); err != nil {
			continue
		}
		wordsAdded++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading bad words: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Display-name filter populated with %d words", wordsAdded)
	return nil
}

// IsBadWord reports whether a single word is on the filter list.
func (db *DB) IsBadWord(word string) (bool, error) {
	cleanWord := strings.TrimSpace(strings.ToLower(word))

	var count int
	query := "SELECT COUNT(*) FROM bad_words WHERE word = ?"
	err := db.QueryRow(query, cleanWord).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check bad word: %w", err)
	}

	if count > 0 {
		log.Printf("Rejected display-name word: '%s'", word)
	}

	return count > 0, nil
}

// ValidateWords screens each word and returns the ones on the filter
// list; registration rejects the display name when any come back.
func (db *DB) ValidateWords(words []string) ([]string, error) {
	if len(words) == 0 {
		return nil, nil
	}

	var badWords []string
	for _, word := range words {
		isBad, err := db.IsBadWord(word)
		if err != nil {
			return nil, err
		}
		if isBad {
			badWords = append(badWords, word)
		}
	}

	return badWords, nil
}
