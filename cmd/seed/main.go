package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"busline/internal/agencies"
	"busline/internal/seatmap"
	"busline/internal/shared/config"
	"busline/internal/shared/database"
	"busline/internal/trips"

	"github.com/google/uuid"
)

type Seeder struct {
	db   *database.DB
	rng  *rand.Rand
	seat seatmap.Service
}

func main() {
	fmt.Println("Starting Busline Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seatRepo := seatmap.NewRepository(db.PostgreSQL, db.Redis)
	seeder := &Seeder{
		db:   db,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		seat: seatmap.NewService(seatRepo, cfg),
	}

	fmt.Println("\nCleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("Database cleaned successfully")

	fmt.Println("\nSeeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("Database seeded successfully")

	fmt.Println("\nSeeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"payments",
		"passengers",
		"reservations",
		"seats",
		"seat_schemas",
		"trips",
		"companies",
		"agencies",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	seededAgencies, err := s.SeedAgencies()
	if err != nil {
		return fmt.Errorf("failed to seed agencies: %w", err)
	}

	seededCompanies, err := s.SeedCompanies()
	if err != nil {
		return fmt.Errorf("failed to seed companies: %w", err)
	}

	if err := s.SeedTrips(seededAgencies, seededCompanies); err != nil {
		return fmt.Errorf("failed to seed trips: %w", err)
	}

	return nil
}

// SeedAgencies inserts the bus terminals trips run between.
func (s *Seeder) SeedAgencies() ([]agencies.Agency, error) {
	fixtures := []agencies.Agency{
		{Name: "İstanbul – Alibeyköy", City: "İstanbul", District: "Alibeyköy"},
		{Name: "İstanbul – Bayrampaşa", City: "İstanbul", District: "Bayrampaşa"},
		{Name: "Ankara – AŞTİ", City: "Ankara", District: "AŞTİ"},
		{Name: "Ankara – Kızılay", City: "Ankara", District: "Kızılay"},
		{Name: "İzmir – Otogar", City: "İzmir", District: "Otogar"},
		{Name: "İzmir – Bornova", City: "İzmir", District: "Bornova"},
		{Name: "Bursa – Otogar", City: "Bursa", District: "Osmangazi"},
		{Name: "Antalya – Otogar", City: "Antalya", District: "Kepez"},
		{Name: "Adana – Otogar", City: "Adana", District: "Seyhan"},
		{Name: "Gaziantep – Otogar", City: "Gaziantep", District: "Şehitkamil"},
		{Name: "Trabzon – Otogar", City: "Trabzon", District: "Ortahisar"},
		{Name: "Samsun – Otogar", City: "Samsun", District: "Canik"},
		{Name: "Eskişehir – Otogar", City: "Eskişehir", District: "Tepebaşı"},
		{Name: "Konya – Otogar", City: "Konya", District: "Selçuklu"},
		{Name: "Kayseri – Otogar", City: "Kayseri", District: "Kocasinan"},
		{Name: "Mersin – Otogar", City: "Mersin", District: "Akdeniz"},
		{Name: "Diyarbakır – Otogar", City: "Diyarbakır", District: "Kayapınar"},
		{Name: "Van – Otogar", City: "Van", District: "İpekyolu"},
	}

	for i := range fixtures {
		fixtures[i].ID = uuid.New()
		fixtures[i].Slug = slugify(fixtures[i].City + "-" + fixtures[i].District)
		if err := s.db.PostgreSQL.Create(&fixtures[i]).Error; err != nil {
			return nil, err
		}
	}

	fmt.Printf("  Seeded %d agencies\n", len(fixtures))
	return fixtures, nil
}

// SeedCompanies inserts the bus operators.
func (s *Seeder) SeedCompanies() ([]agencies.Company, error) {
	names := []string{
		"Atlas Lines",
		"Metro Express",
		"KamilKoç",
		"Pamukkale",
		"Anadolu Star",
		"Ege Tur",
		"Marmara Travel",
		"Karadeniz Ekspres",
		"Toros Lines",
		"Kapadokya Tur",
		"Trakya Coach",
		"İç Anadolu",
		"Edirne Express",
		"Nemrut Travel",
		"Pamphylia",
		"Vangölü Turizm",
		"Has Diyarbakır",
		"Ben Turizm",
		"Seç Turizm",
		"Lüks Karadeniz",
	}

	palette := []string{
		"#C0392B", "#2980B9", "#27AE60", "#8E44AD", "#D35400",
		"#16A085", "#2C3E50", "#F39C12", "#7F8C8D", "#E74C3C",
	}

	seeded := make([]agencies.Company, 0, len(names))
	for i, name := range names {
		company := agencies.Company{
			ID:    uuid.New(),
			Name:  name,
			Code:  strings.ToUpper(slugify(name))[:3],
			Color: palette[i%len(palette)],
		}
		if err := s.db.PostgreSQL.Create(&company).Error; err != nil {
			return nil, err
		}
		seeded = append(seeded, company)
	}

	fmt.Printf("  Seeded %d companies\n", len(seeded))
	return seeded, nil
}

// SeedTrips builds routes between cities and generates trips with their
// seat schemas. Each departure agency gets up to two destination routes,
// each route four to six trips over the next month.
func (s *Seeder) SeedTrips(seededAgencies []agencies.Agency, seededCompanies []agencies.Company) error {
	const (
		routesPerFrom    = 2
		minTripsPerRoute = 4
		maxTripsPerRoute = 6
	)

	type route struct {
		from, to agencies.Agency
	}

	routeKeys := make(map[string]struct{})
	var routes []route

	for _, from := range seededAgencies {
		var candidates []agencies.Agency
		for _, a := range seededAgencies {
			if a.ID != from.ID && a.City != from.City {
				candidates = append(candidates, a)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		for i := 0; i < routesPerFrom && i < len(candidates); i++ {
			to := candidates[s.rng.Intn(len(candidates))]
			key := from.ID.String() + "-" + to.ID.String()
			if _, dup := routeKeys[key]; dup {
				continue
			}
			routeKeys[key] = struct{}{}
			routes = append(routes, route{from: from, to: to})
		}
	}

	ctx := context.Background()
	now := time.Now()
	tripTotal := 0

	for _, r := range routes {
		tripCount := minTripsPerRoute + s.rng.Intn(maxTripsPerRoute-minTripsPerRoute+1)

		for i := 0; i < tripCount; i++ {
			company := seededCompanies[s.rng.Intn(len(seededCompanies))]

			// Departures land between 5 hours and 30 days from now.
			offset := time.Duration(5+s.rng.Intn(30*24-5)) * time.Hour
			departure := now.Add(offset)
			arrival := departure.Add(time.Duration(4+s.rng.Intn(5)) * time.Hour)
			price := float64(300 + s.rng.Intn(501))

			trip := trips.Trip{
				ID:           uuid.New(),
				Departure:    departure,
				Arrival:      arrival,
				Price:        price,
				FromAgencyID: r.from.ID,
				ToAgencyID:   r.to.ID,
				CompanyID:    company.ID,
			}
			if err := s.db.PostgreSQL.Create(&trip).Error; err != nil {
				return err
			}

			layoutType := seatmap.LayoutTwoPlusOne
			if s.rng.Intn(2) == 1 {
				layoutType = seatmap.LayoutTwoPlusTwo
			}
			if _, err := s.seat.CreateSchemaForTrip(ctx, trip.ID, layoutType, price); err != nil {
				return err
			}

			tripTotal++
		}
	}

	fmt.Printf("  Seeded %d trips across %d routes\n", tripTotal, len(routes))
	return nil
}

var turkishReplacer = strings.NewReplacer(
	"ı", "i", "İ", "i", "ş", "s", "Ş", "s", "ğ", "g", "Ğ", "g",
	"ü", "u", "Ü", "u", "ö", "o", "Ö", "o", "ç", "c", "Ç", "c",
	"–", "-", " ", "-",
)

// slugify lowercases and strips Turkish characters for URL-safe slugs.
func slugify(text string) string {
	out := strings.ToLower(turkishReplacer.Replace(text))
	out = strings.Trim(out, "-")
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	return out
}
