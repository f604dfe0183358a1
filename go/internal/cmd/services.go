package main

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aidankmcalister/dles-fun/go/internal/games"
	"github.com/aidankmcalister/dles-fun/go/internal/plays"
	"github.com/aidankmcalister/dles-fun/go/internal/race"
	"github.com/aidankmcalister/dles-fun/go/internal/users"
)

type Services struct {
	Races *race.Service
	Games *games.Service
	Plays *plays.Service
	Users *users.Service
}

func setupServices(pool *pgxpool.Pool) *Services {
	// Wire up dependency injection chain
	// Database layer → Repository layer → App layer → Service layer

	// Games catalog
	gamesRepo := games.NewRepository(pool)
	gamesApp := games.NewApp(gamesRepo)
	gamesService := games.NewService(gamesApp)

	// Races
	raceRepo := race.NewRepository(pool)
	raceApp := race.NewApp(raceRepo, gamesApp)
	raceService := race.NewService(raceApp)

	// Plays
	playsRepo := plays.NewRepository(pool)
	playsApp := plays.NewApp(playsRepo)
	playsService := plays.NewService(playsApp)

	// Users
	userRepo := users.NewRepository(pool)
	userApp := users.NewApp(userRepo)
	userService := users.NewService(userApp)

	return &Services{
		Races: raceService,
		Games: gamesService,
		Plays: playsService,
		Users: userService,
	}
}
