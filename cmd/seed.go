package main

import (
	"context"
	"log"
	"math/rand"
	"strings"

	"github.com/jaswdr/faker"

	"noticeboard/pkg/actor"
	. "noticeboard/pkg/common"
	"noticeboard/pkg/post"
	"noticeboard/pkg/role"
)

var f = faker.New()

// The well-known demo directory: one superadmin, a subadmin per
// faculty, a couple of students.
var fixtureActors = []struct {
	username string
	password string
	name     string
	email    string
	role     role.Role
	faculty  string
}{
	{"superadmin", "admin123", "Super Admin", "superadmin@bdu.edu.et", role.SuperAdmin, ""},
	{"computing_admin", "comp123", "Computing Admin", "computing@bdu.edu.et", role.SubAdmin, "computing"},
	{"electrical_admin", "elec123", "Electrical Admin", "electrical@bdu.edu.et", role.SubAdmin, "electrical-computer"},
	{"student1", "student123", "John Doe", "john@student.bdu.edu.et", role.User, "computing"},
	{"student2", "student123", "Jane Smith", "jane@student.bdu.edu.et", role.User, "electrical-computer"},
}

func createFixtureActors(actorRepo *actor.Repo) []*actor.Actor {
	ctx := context.Background()
	created := []*actor.Actor{}
	for _, fx := range fixtureActors {
		a := &actor.Actor{
			Username:    fx.username,
			DisplayName: fx.name,
			Email:       fx.email,
			Role:        fx.role,
			Faculty:     fx.faculty,
			Password:    HashPass(fx.password, RandStringRunes(8)),
		}
		if _, err := actorRepo.Add(ctx, a); err != nil {
			log.Fatalln("seed: can't create fixture actor:", err)
		}
		created = append(created, a)
	}
	return created
}

func seed(actorRepo *actor.Repo, postRepo *post.Repo) {
	ctx := context.Background()

	authors, err := actorRepo.GetAll(ctx)
	if err != nil {
		log.Fatalln("seed: can't get all actors:", err)
	}
	if len(authors) == 0 {
		authors = createFixtureActors(actorRepo)
	}

	admins := []*actor.Actor{}
	for _, a := range authors {
		if role.Allowed(a.Role, role.SuperAdmin, role.SubAdmin) {
			admins = append(admins, a)
		}
	}
	if len(admins) == 0 {
		return
	}

	for i := 0; i <= 10; i++ {
		author := admins[rand.Intn(len(admins))]
		created, err := postRepo.Add(ctx, author, genPost())
		if err != nil {
			log.Fatalln("seed: can't add post:", err)
		}
		// Let some of the subadmin posts through moderation so the
		// public board isn't empty.
		if !created.Approved && rand.Intn(2) == 0 {
			if _, err := postRepo.Approve(ctx, created.Id); err != nil {
				log.Fatalln("seed: can't approve post:", err)
			}
		}
	}
}

func randCategory() string {
	categories := []string{"academic", "events", "sports", "clubs", "scholarships", "announcements"}
	return categories[rand.Intn(len(categories))]
}

func genTitle() string {
	return strings.Join(f.Lorem().Words(rand.Intn(5)+3), " ")
}

func genPost() *post.Post {
	return &post.Post{
		Title:       genTitle(),
		Description: f.Lorem().Paragraph(rand.Intn(3) + 2),
		Category:    randCategory(),
		Important:   rand.Intn(5) == 0,
	}
}
