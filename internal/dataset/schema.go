// Package dataset handles ingestion and cleaning of outbreak report
// tables: CSV loading with schema validation, missing-value imputation,
// and derivation of the Hospitalized label.
package dataset

// Column names of the raw outbreak schema. The set is fixed; stages
// address columns through these constants rather than dynamic typing.
const (
	ColYear             = "Year"
	ColMonth            = "Month"
	ColState            = "State"
	ColLocation         = "Location"
	ColFood             = "Food"
	ColIngredient       = "Ingredient"
	ColSpecies          = "Species"
	ColSerotype         = "Serotype/Genotype"
	ColStatus           = "Status"
	ColIllnesses        = "Illnesses"
	ColHospitalizations = "Hospitalizations"
	ColFatalities       = "Fatalities"

	// ColHospitalized is derived by Clean: 1 iff Hospitalizations > 0.
	ColHospitalized = "Hospitalized"
)

// Unknown is the sentinel category substituted for missing categorical
// values.
const Unknown = "Unknown"

// RawColumns lists every column an input file must provide, in schema
// order.
var RawColumns = []string{
	ColYear, ColMonth, ColState, ColLocation, ColFood, ColIngredient,
	ColSpecies, ColSerotype, ColStatus, ColIllnesses,
	ColHospitalizations, ColFatalities,
}

// categoricalColumns are string-typed; empty cells mean missing.
var categoricalColumns = []string{
	ColMonth, ColState, ColLocation, ColFood, ColIngredient,
	ColSpecies, ColSerotype, ColStatus,
}

// imputedCategoricals receive the Unknown sentinel when missing.
// State and Month are categorical but never imputed, matching the
// cleaning policy of the surveillance feed.
var imputedCategoricals = []string{
	ColLocation, ColFood, ColIngredient, ColSpecies, ColSerotype,
	ColStatus,
}

// imputedCounts receive 0 when missing.
var imputedCounts = []string{ColHospitalizations, ColFatalities}

// requiredCounts must parse on every row.
var requiredCounts = []string{ColYear, ColIllnesses}
