package loader

import (
	"strings"
	"testing"

	"catalog-insights/catalog"
)

const sampleCSV = `show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description
s1,Movie,Sample Film,Jane Doe,"Actor One, Actor Two","India, France","September 9, 2019",2019,PG-13,90 min,"Dramas, International Movies",A quiet love story.
s2,TV Show,Sample Show,,"Actor Two","United States","January 15, 2021",2021,TV-MA,3 Seasons,Crime TV Shows,A killer stalks the city.
s3,Movie,Broken Row,John Roe,,,not a real date,199x,,ninety min,Documentaries,Field notes.
`

func TestLoad(t *testing.T) {
	result, err := Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Failed to load sample: %v", err)
	}

	if result.Skipped != 0 {
		t.Errorf("Expected 0 skipped rows, got %d", result.Skipped)
	}
	if len(result.Records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(result.Records))
	}

	movie := result.Records[0]
	if movie.Kind != catalog.KindMovie {
		t.Errorf("Expected movie, got %s", movie.Kind)
	}
	if len(movie.Cast) != 2 || movie.Cast[0] != "Actor One" {
		t.Errorf("Cast not split at load time: %v", movie.Cast)
	}
	if len(movie.Countries) != 2 || movie.Countries[1] != "France" {
		t.Errorf("Countries not split at load time: %v", movie.Countries)
	}
	if movie.Duration == nil || movie.Duration.Value != 90 || movie.Duration.Unit != catalog.UnitMinutes {
		t.Errorf("Expected 90 min duration, got %v", movie.Duration)
	}
	if movie.DateAdded == nil || movie.DateAdded.Year() != 2019 {
		t.Errorf("Expected 2019 added date, got %v", movie.DateAdded)
	}
	if movie.ReleaseYear != 2019 {
		t.Errorf("Expected release year 2019, got %d", movie.ReleaseYear)
	}

	show := result.Records[1]
	if show.Kind != catalog.KindTVShow {
		t.Errorf("Expected TV show, got %s", show.Kind)
	}
	if len(show.Directors) != 0 {
		t.Errorf("Expected missing director to stay empty, got %v", show.Directors)
	}
	if show.Duration == nil || show.Duration.Value != 3 || show.Duration.Unit != catalog.UnitSeasons {
		t.Errorf("Expected 3 seasons, got %v", show.Duration)
	}
}

// Malformed dates, years and durations leave the field unset but keep the row.
func TestLoadMalformedFields(t *testing.T) {
	result, err := Load(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Failed to load sample: %v", err)
	}

	broken := result.Records[2]
	if broken.DateAdded != nil {
		t.Errorf("Unparseable date should be nil, got %v", broken.DateAdded)
	}
	if broken.Duration != nil {
		t.Errorf("Unparseable duration should be nil, got %v", broken.Duration)
	}
	if broken.ReleaseYear != 0 {
		t.Errorf("Unparseable year should be 0, got %d", broken.ReleaseYear)
	}
	if broken.Rating != "" {
		t.Errorf("Absent rating should be empty, got %q", broken.Rating)
	}
}

func TestLoadSkipsUnusableRows(t *testing.T) {
	csv := "show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description\n" +
		"s1,Concert,Oddity,,,,,2020,,,,whatever\n" +
		",Movie,No ID,,,,,2020,,,,whatever\n" +
		"s2,Movie,Keeper,,,,,2020,,88 min,Dramas,fine\n"

	result, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	if result.Skipped != 2 {
		t.Errorf("Expected 2 skipped rows, got %d", result.Skipped)
	}
	if len(result.Records) != 1 || result.Records[0].ID != "s2" {
		t.Fatalf("Expected only s2 to survive, got %v", result.Records)
	}
}

func TestLoadWithoutHeader(t *testing.T) {
	csv := `s1,Movie,Headerless,,,,,2018,,100 min,Dramas,plain row` + "\n"

	result, err := Load(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(result.Records))
	}
	if result.Records[0].Title != "Headerless" {
		t.Errorf("Expected Headerless, got %q", result.Records[0].Title)
	}
}
