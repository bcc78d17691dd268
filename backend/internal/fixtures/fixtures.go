package fixtures

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"socialgraph/backend/internal/facade"
	"socialgraph/backend/internal/model"
	"socialgraph/backend/pkg/logger"
)

//go:embed default.yaml
var defaultFixture []byte

// Invoker runs a named operation. Implemented in process by *facade.Facade
// and remotely by *client.Client.
type Invoker interface {
	Invoke(ctx context.Context, name string, args any, out any) error
}

// Fixture is seed data. Records reference each other by key, ids are
// assigned by the service.
type Fixture struct {
	MembershipTiers []Tier    `yaml:"membershipTiers"`
	Accounts        []Account `yaml:"accounts"`
}

// Tier is a membership tier to create
type Tier struct {
	Key             string `yaml:"key"`
	Discount        int    `yaml:"discount"`
	MonthPostsLimit int    `yaml:"monthPostsLimit"`
}

// Account is an account with its follows, profile and posts
type Account struct {
	Key       string   `yaml:"key"`
	FirstName string   `yaml:"firstName"`
	LastName  string   `yaml:"lastName"`
	Email     string   `yaml:"email"`
	Follows   []string `yaml:"follows"`
	Profile   *Profile `yaml:"profile"`
	Posts     []Post   `yaml:"posts"`
}

// Profile references its tier by key
type Profile struct {
	Tier     string `yaml:"tier"`
	Avatar   string `yaml:"avatar"`
	Sex      string `yaml:"sex"`
	Birthday int    `yaml:"birthday"`
	Country  string `yaml:"country"`
	Street   string `yaml:"street"`
	City     string `yaml:"city"`
}

// Post is a post owned by the enclosing account
type Post struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// Applied maps fixture keys to the ids the service assigned
type Applied struct {
	Tiers    map[string]string
	Accounts map[string]string
}

// Default returns the embedded fixture with the two standard membership tiers
func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

// Load reads a fixture file
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixture, rejecting unknown fields and dangling keys
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	return &f, nil
}

func (f *Fixture) validate() error {
	tiers := make(map[string]bool, len(f.MembershipTiers))
	for _, t := range f.MembershipTiers {
		if t.Key == "" {
			return fmt.Errorf("membership tier key is required")
		}
		if tiers[t.Key] {
			return fmt.Errorf("duplicate membership tier key %q", t.Key)
		}
		tiers[t.Key] = true
	}

	accounts := make(map[string]bool, len(f.Accounts))
	for _, a := range f.Accounts {
		if a.Key == "" {
			return fmt.Errorf("account key is required")
		}
		if accounts[a.Key] {
			return fmt.Errorf("duplicate account key %q", a.Key)
		}
		accounts[a.Key] = true
	}

	for _, a := range f.Accounts {
		for _, target := range a.Follows {
			if !accounts[target] {
				return fmt.Errorf("account %q follows unknown account %q", a.Key, target)
			}
		}
		if a.Profile != nil && !tiers[a.Profile.Tier] {
			return fmt.Errorf("profile of %q references unknown tier %q", a.Key, a.Profile.Tier)
		}
	}
	return nil
}

// Apply creates every record of the fixture through inv. Tiers and accounts
// come first so follows, profiles and posts can reference them.
func (f *Fixture) Apply(ctx context.Context, inv Invoker) (*Applied, error) {
	log := logger.For("fixtures")
	applied := &Applied{
		Tiers:    make(map[string]string, len(f.MembershipTiers)),
		Accounts: make(map[string]string, len(f.Accounts)),
	}

	for _, t := range f.MembershipTiers {
		var created model.MembershipTier
		err := inv.Invoke(ctx, facade.OpCreateMembershipTier, model.MembershipTier{
			Discount:        t.Discount,
			MonthPostsLimit: t.MonthPostsLimit,
		}, &created)
		if err != nil {
			return applied, fmt.Errorf("membership tier %q: %w", t.Key, err)
		}
		applied.Tiers[t.Key] = created.ID
	}

	for _, a := range f.Accounts {
		var created model.Account
		err := inv.Invoke(ctx, facade.OpCreateAccount, model.Account{
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Email:     a.Email,
		}, &created)
		if err != nil {
			return applied, fmt.Errorf("account %q: %w", a.Key, err)
		}
		applied.Accounts[a.Key] = created.ID
	}

	for _, a := range f.Accounts {
		accountID := applied.Accounts[a.Key]

		for _, target := range a.Follows {
			err := inv.Invoke(ctx, facade.OpSubscribeTo, map[string]string{
				"followerId": accountID,
				"targetId":   applied.Accounts[target],
			}, nil)
			if err != nil {
				return applied, fmt.Errorf("account %q follow %q: %w", a.Key, target, err)
			}
		}

		if p := a.Profile; p != nil {
			err := inv.Invoke(ctx, facade.OpCreateProfile, model.Profile{
				Avatar:           p.Avatar,
				Sex:              p.Sex,
				Birthday:         p.Birthday,
				Country:          p.Country,
				Street:           p.Street,
				City:             p.City,
				MembershipTierID: applied.Tiers[p.Tier],
				AccountID:        accountID,
			}, nil)
			if err != nil {
				return applied, fmt.Errorf("profile of %q: %w", a.Key, err)
			}
		}

		for i, post := range a.Posts {
			err := inv.Invoke(ctx, facade.OpCreatePost, model.Post{
				Title:     post.Title,
				Content:   post.Content,
				AccountID: accountID,
			}, nil)
			if err != nil {
				return applied, fmt.Errorf("post %d of %q: %w", i, a.Key, err)
			}
		}
	}

	log.Info("Fixture applied",
		zap.Int("membership_tiers", len(applied.Tiers)),
		zap.Int("accounts", len(applied.Accounts)),
	)
	return applied, nil
}
