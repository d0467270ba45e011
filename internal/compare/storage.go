package compare

import "github.com/costwise/costwise/internal/domain"

// Storage class characteristics keyed by storage type.
var storageTraits = map[string]domain.StorageCharacteristics{
	"s3_standard": {Durability: "99.999999999%", Availability: "99.99%", UseCase: "Frequent access"},
	"s3_ia":       {Durability: "99.999999999%", Availability: "99.9%", UseCase: "Infrequent access"},
	"s3_glacier":  {Durability: "99.999999999%", Availability: "N/A", UseCase: "Archival"},
	"standard":    {Durability: "99.999999999%", Availability: "99.95%", UseCase: "Frequent access"},
	"nearline":    {Durability: "99.999999999%", Availability: "99.95%", UseCase: "Monthly backup"},
	"coldline":    {Durability: "99.999999999%", Availability: "99.95%", UseCase: "Archival"},
	"archive":     {Durability: "99.999999999%", Availability: "99.95%", UseCase: "Long-term archival"},
}

// Storage compares per-GB storage prices scaled by the workload's storage
// size. The cheaper provider wins; confidence ramps with the savings
// percentage and saturates at 20%.
func Storage(aws, gcp domain.StoragePrice, sizeGB float64) domain.StorageComparison {
	awsMonthly := aws.PerGBMonthUSD * sizeGB
	gcpMonthly := gcp.PerGBMonthUSD * sizeGB

	winner := "gcp"
	savings := awsMonthly - gcpMonthly
	if gcpMonthly > awsMonthly {
		winner = "aws"
		savings = gcpMonthly - awsMonthly
	}

	max := awsMonthly
	if gcpMonthly > max {
		max = gcpMonthly
	}
	savingsPct := 0.0
	if max > 0 {
		savingsPct = (savings / max) * 100
	}

	confidence := savingsPct / 20
	if confidence > 1 {
		confidence = 1
	}

	return domain.StorageComparison{
		AWSStorageType:    aws.StorageType,
		GCPStorageType:    gcp.StorageType,
		SizeGB:            sizeGB,
		AWSMonthlyUSD:     awsMonthly,
		GCPMonthlyUSD:     gcpMonthly,
		Winner:            winner,
		MonthlySavingsUSD: savings,
		SavingsPercent:    savingsPct,
		Confidence:        confidence,
		AWS:               storageTraits[aws.StorageType],
		GCP:               storageTraits[gcp.StorageType],
	}
}
