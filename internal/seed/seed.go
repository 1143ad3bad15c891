// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"entrelinhas/internal/config"
	"entrelinhas/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder
type Options struct {
	NumProfiles int
	NumPosts    int
	// Threshold mirrors REPORT_HIDE_THRESHOLD so seeded reports produce
	// consistent visibility.
	Threshold   int
	ShouldClean bool
}

var desabafoOpeners = []string{
	"Hoje eu percebi que",
	"Nunca contei isso pra ninguém, mas",
	"Faz meses que eu penso nisso:",
	"Preciso tirar isso do peito:",
	"Às vezes eu sinto que",
	"Ninguém na minha casa sabe que",
	"Eu queria muito conseguir dizer que",
}

// Run populates the database with a believable board: anonymous profiles,
// posts across every category, comments, reactions, karma votes and a few
// reported posts, some of them past the hide threshold.
func Run(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	catalog, err := config.LoadCatalog()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	if opts.NumProfiles <= 0 {
		opts.NumProfiles = 10
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 40
	}
	if opts.Threshold <= 0 {
		opts.Threshold = 5
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("clean tables: %w", err)
		}
	}

	profiles, err := seedProfiles(db, opts.NumProfiles)
	if err != nil {
		return fmt.Errorf("seed profiles: %w", err)
	}

	posts, err := seedPosts(db, r, catalog, profiles, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}

	comments, err := seedComments(db, r, profiles, posts)
	if err != nil {
		return fmt.Errorf("seed comments: %w", err)
	}

	if err := seedReactions(db, r, catalog, profiles, posts); err != nil {
		return fmt.Errorf("seed reactions: %w", err)
	}
	if err := seedKarma(db, r, profiles, comments); err != nil {
		return fmt.Errorf("seed karma: %w", err)
	}
	if err := seedReports(db, r, profiles, posts, opts.Threshold); err != nil {
		return fmt.Errorf("seed reports: %w", err)
	}

	log.Printf("seeded %d profiles, %d posts, %d comments", len(profiles), len(posts), len(comments))
	return nil
}

func clean(db *gorm.DB) error {
	tables := []interface{}{
		&models.CommentKarma{}, &models.Comment{},
		&models.Reaction{}, &models.ReactionCount{},
		&models.Report{}, &models.Post{}, &models.Profile{},
	}
	for _, table := range tables {
		if err := db.Where("1 = 1").Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedProfiles(db *gorm.DB, n int) ([]models.Profile, error) {
	profiles := make([]models.Profile, 0, n)
	for i := 0; i < n; i++ {
		profiles = append(profiles, models.Profile{
			Nickname: gofakeit.Username(),
			Bio:      gofakeit.Quote(),
			Token:    uuid.NewString(),
		})
	}
	if err := db.Create(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func seedPosts(db *gorm.DB, r *rand.Rand, catalog *config.Catalog, profiles []models.Profile, n int) ([]models.Post, error) {
	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		category := catalog.Categories[r.Intn(len(catalog.Categories))].Value
		opener := desabafoOpeners[r.Intn(len(desabafoOpeners))]
		post := models.Post{
			Body:     fmt.Sprintf("%s %s", opener, gofakeit.Paragraph(1, 2, 8, " ")),
			Category: category,
			Visible:  true,
			// Spread creation over the last 60 days.
			CreatedAt: time.Now().Add(-time.Duration(r.Intn(60*24)) * time.Hour),
		}
		// Roughly a third of posts are attributed to a profile; the rest
		// stay fully anonymous.
		if r.Intn(3) == 0 {
			id := profiles[r.Intn(len(profiles))].ID
			post.ProfileID = &id
		}
		posts = append(posts, post)
	}
	if err := db.Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func seedComments(db *gorm.DB, r *rand.Rand, profiles []models.Profile, posts []models.Post) ([]models.Comment, error) {
	var comments []models.Comment
	for _, post := range posts {
		for i := 0; i < r.Intn(4); i++ {
			comment := models.Comment{
				PostID:    post.ID,
				Body:      gofakeit.Sentence(10),
				Visible:   true,
				CreatedAt: post.CreatedAt.Add(time.Duration(1+r.Intn(48)) * time.Hour),
			}
			if r.Intn(2) == 0 {
				id := profiles[r.Intn(len(profiles))].ID
				comment.ProfileID = &id
			}
			comments = append(comments, comment)
		}
	}
	if len(comments) == 0 {
		return comments, nil
	}
	if err := db.Create(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// seedReactions inserts reaction rows and rebuilds the denormalized counters
// so the invariant holds on freshly seeded data.
func seedReactions(db *gorm.DB, r *rand.Rand, catalog *config.Catalog, profiles []models.Profile, posts []models.Post) error {
	kinds := catalog.ReactionValues()
	counts := make(map[[2]string]int)
	var reactions []models.Reaction

	for _, post := range posts {
		for _, profile := range profiles {
			if r.Intn(4) != 0 {
				continue
			}
			kind := kinds[r.Intn(len(kinds))]
			reactions = append(reactions, models.Reaction{
				PostID:    post.ID,
				Kind:      kind,
				CallerKey: profile.Identity().Key(),
			})
			counts[[2]string{fmt.Sprint(post.ID), kind}]++
		}
	}
	if len(reactions) == 0 {
		return nil
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&reactions).Error; err != nil {
		return err
	}

	var counters []models.ReactionCount
	for _, reaction := range reactions {
		key := [2]string{fmt.Sprint(reaction.PostID), reaction.Kind}
		if counts[key] == 0 {
			continue
		}
		counters = append(counters, models.ReactionCount{
			PostID: reaction.PostID,
			Kind:   reaction.Kind,
			Count:  counts[key],
		})
		counts[key] = 0
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&counters).Error
}

func seedKarma(db *gorm.DB, r *rand.Rand, profiles []models.Profile, comments []models.Comment) error {
	var votes []models.CommentKarma
	for _, comment := range comments {
		for _, profile := range profiles {
			if r.Intn(3) != 0 {
				continue
			}
			kind := models.KarmaUp
			if r.Intn(4) == 0 {
				kind = models.KarmaDown
			}
			votes = append(votes, models.CommentKarma{
				CommentID: comment.ID,
				VoterKey:  profile.Identity().Key(),
				Kind:      kind,
			})
		}
	}
	if len(votes) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&votes).Error
}

// seedReports flags a handful of posts, pushing one past the threshold so
// the hidden-post moderation flow has data to work with.
func seedReports(db *gorm.DB, r *rand.Rand, profiles []models.Profile, posts []models.Post, threshold int) error {
	if len(posts) == 0 || len(profiles) < threshold {
		return nil
	}

	// One post over the threshold, hidden.
	target := posts[r.Intn(len(posts))]
	var reports []models.Report
	for i := 0; i < threshold && i < len(profiles); i++ {
		key := profiles[i].Identity().Key()
		reports = append(reports, models.Report{PostID: target.ID, ReporterKey: &key})
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&reports).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Post{}).
		Where("id = ?", target.ID).
		Update("visible", false).Error; err != nil {
		return err
	}

	// A few under-threshold reports, some anonymous.
	var scattered []models.Report
	for i := 0; i < len(posts)/5; i++ {
		post := posts[r.Intn(len(posts))]
		if post.ID == target.ID {
			continue
		}
		if r.Intn(2) == 0 {
			key := profiles[r.Intn(len(profiles))].Identity().Key()
			scattered = append(scattered, models.Report{PostID: post.ID, ReporterKey: &key})
		} else {
			scattered = append(scattered, models.Report{PostID: post.ID})
		}
	}
	if len(scattered) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&scattered).Error
}
