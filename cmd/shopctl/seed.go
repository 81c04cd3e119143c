package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Beka01247/brewline/internal/auth"
	"github.com/Beka01247/brewline/internal/domain"
	"github.com/Beka01247/brewline/internal/repo"
	"github.com/Beka01247/brewline/internal/store/mongo"
	"github.com/jaswdr/faker"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const seedPassword = "brewline-demo"

func newSeedCmd(v *viper.Viper) *cobra.Command {
	var customers int
	var maxPoints int
	var withMenu bool
	var seed int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo customers and a starter menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			if customers < 0 {
				return errors.New("--customers must not be negative")
			}

			storage, _, err := openStorage(v)
			if err != nil {
				return err
			}
			defer storage.Close(context.Background())

			ctx := cmd.Context()
			db := storage.Database()

			if withMenu {
				n, err := mongo.NewMenuRepository(db).UpsertByTitle(ctx, starterMenu(time.Now()))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "menu: %d items\n", n)
			}

			hash, err := auth.HashPassword(seedPassword)
			if err != nil {
				return err
			}

			users := mongo.NewUserRepository(db)
			accounts := mongo.NewLoyaltyRepository(db)
			fake := faker.New()
			rng := rand.New(rand.NewSource(seed))

			bar := progressbar.Default(int64(customers), "seeding customers")
			created := 0
			for i := 0; i < customers; i++ {
				user := fakeCustomer(fake, hash, time.Now())
				if err := users.Create(ctx, &user); err != nil {
					if !errors.Is(err, repo.ErrDuplicate) {
						return err
					}
				} else {
					created++
					if maxPoints > 0 {
						if err := accounts.AddPoints(ctx, user.ID.Hex(), rng.Intn(maxPoints+1)); err != nil {
							return err
						}
					}
				}
				bar.Add(1)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\ncustomers: %d created, password %q\n", created, seedPassword)
			return nil
		},
	}

	cmd.Flags().IntVar(&customers, "customers", 50, "number of customers to create")
	cmd.Flags().IntVar(&maxPoints, "max-points", 200, "upper bound of the loyalty balance given to each customer")
	cmd.Flags().BoolVar(&withMenu, "menu", true, "upsert the starter menu")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for loyalty balances")

	return cmd
}

func fakeCustomer(fake faker.Faker, passwordHash string, now time.Time) domain.User {
	person := fake.Person()
	first, last := person.FirstName(), person.LastName()

	return domain.User{
		Name:         first + " " + last,
		Email:        strings.ToLower(fmt.Sprintf("%s.%s.%d@%s", first, last, fake.IntBetween(1, 9999), fake.Internet().FreeEmailDomain())),
		Phone:        fake.Phone().Number(),
		Role:         string(auth.RoleCustomer),
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
}

func starterMenu(now time.Time) []domain.MenuItem {
	item := func(category, title string, price float64, description string, allergens ...string) domain.MenuItem {
		return domain.MenuItem{
			Title:       title,
			Price:       price,
			Category:    category,
			Description: description,
			Allergens:   allergens,
			Available:   true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	return []domain.MenuItem{
		item(domain.CategoryHotBeverages, "Cappuccino", 36, "Double shot with steamed milk and foam", "dairy"),
		item(domain.CategoryHotBeverages, "Flat White", 38, "Ristretto with silky microfoam", "dairy"),
		item(domain.CategoryHotBeverages, "Americano", 30, "Espresso topped with hot water"),
		item(domain.CategoryHotBeverages, "Rooibos Latte", 34, "Red espresso with steamed milk", "dairy"),
		item(domain.CategoryColdDrinks, "Iced Latte", 40, "Espresso over ice and cold milk", "dairy"),
		item(domain.CategoryColdDrinks, "Cold Brew", 42, "Steeped for eighteen hours"),
		item(domain.CategoryColdDrinks, "Fresh Orange Juice", 35, "Squeezed to order"),
		item(domain.CategoryBreakfast, "Avo Toast", 75, "Sourdough, smashed avocado, feta and chilli", "gluten", "dairy"),
		item(domain.CategoryBreakfast, "Eggs Benedict", 89, "Poached eggs, hollandaise and ham on a muffin", "gluten", "eggs", "dairy"),
		item(domain.CategoryBreakfast, "Granola Bowl", 65, "House granola, yoghurt and berries", "nuts", "dairy"),
		item(domain.CategoryPastries, "Croissant", 32, "All-butter croissant", "gluten", "dairy"),
		item(domain.CategoryPastries, "Pain au Chocolat", 36, "Croissant dough with dark chocolate", "gluten", "dairy"),
		item(domain.CategoryPastries, "Blueberry Muffin", 30, "Baked every morning", "gluten", "eggs", "dairy"),
	}
}
