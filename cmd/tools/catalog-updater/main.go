// cmd/tools/catalog-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"loanform/pkg/catalog"
)

var catalogPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)

	// Add command flags
	typeAdd := addCmd.String("type", "", "Loan type (e.g., home)")
	displayName := addCmd.String("displayName", "", "Display name (e.g., Home Loan)")
	externalID := addCmd.String("externalId", "", "Identifier the prediction service expects (e.g., homeLoan)")
	rate := addCmd.Float64("rate", 0, "Default annual rate, percent")
	minAmount := addCmd.Float64("minAmount", 0, "Minimum loan amount")
	maxAmount := addCmd.Float64("maxAmount", 0, "Maximum loan amount")
	maxTenure := addCmd.Int("maxTenureYears", 0, "Maximum tenure in years")
	downPayment := addCmd.Float64("downPaymentRatio", 0, "Minimum down payment ratio (0 for unsecured)")
	addCmd.StringVar(&catalogPath, "path", "configs/loan-catalog.json", "Path to catalog file")

	// Update command flags
	typeUpdate := updateCmd.String("type", "", "Loan type to update")
	field := updateCmd.String("field", "", "Field to update (rate, minAmount, maxAmount, maxTenureYears, downPaymentRatio, displayName, externalId)")
	value := updateCmd.String("value", "", "New value for the field")
	updateCmd.StringVar(&catalogPath, "path", "configs/loan-catalog.json", "Path to catalog file")

	validateCmd.StringVar(&catalogPath, "path", "configs/loan-catalog.json", "Path to catalog file")
	exportCmd.StringVar(&catalogPath, "path", "configs/loan-catalog.json", "Path to write the compiled-in catalog to")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *typeAdd == "" || *displayName == "" || *externalID == "" || *rate <= 0 || *minAmount <= 0 || *maxAmount <= *minAmount || *maxTenure <= 0 {
			fmt.Println("Error: type, displayName, externalId, rate, minAmount, maxAmount, and maxTenureYears are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		product := catalog.LoanProduct{
			Type:             *typeAdd,
			DisplayName:      *displayName,
			ExternalID:       *externalID,
			DefaultRate:      *rate,
			MinAmount:        *minAmount,
			MaxAmount:        *maxAmount,
			MaxTenureYears:   *maxTenure,
			DownPaymentRatio: *downPayment,
		}
		if err := addProduct(&product); err != nil {
			fmt.Printf("Error adding product: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added product: %s\n", *typeAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *typeUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: type, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateProduct(*typeUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating product: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated product %s, field %s to %s\n", *typeUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		cat, err := catalog.Load(catalogPath)
		if err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog validation passed. Found %d products.\n", len(cat.Products))

	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := saveCatalog(catalog.Default(), catalogPath); err != nil {
			fmt.Printf("Error exporting catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default catalog to %s\n", catalogPath)

	case "help":
		fallthrough
	default:
		help()
	}
}

func addProduct(product *catalog.LoanProduct) error {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		// If file doesn't exist, start from the compiled-in catalog.
		if os.IsNotExist(err) {
			cat = catalog.Default()
		} else {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	for _, existing := range cat.Products {
		if existing.Type == product.Type {
			return fmt.Errorf("product with type %s already exists", product.Type)
		}
	}

	cat.Products = append(cat.Products, *product)
	cat.LastUpdated = time.Now().Format("2006-01-02")

	if err := cat.Validate(); err != nil {
		return err
	}
	return saveCatalog(cat, catalogPath)
}

func updateProduct(loanType, field, value string) error {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	found := false
	for i := range cat.Products {
		if cat.Products[i].Type != loanType {
			continue
		}
		found = true
		switch field {
		case "displayName":
			cat.Products[i].DisplayName = value
		case "externalId":
			cat.Products[i].ExternalID = value
		case "rate":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid rate value: %w", err)
			}
			cat.Products[i].DefaultRate = v
		case "minAmount":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid minAmount value: %w", err)
			}
			cat.Products[i].MinAmount = v
		case "maxAmount":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid maxAmount value: %w", err)
			}
			cat.Products[i].MaxAmount = v
		case "maxTenureYears":
			v, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid maxTenureYears value: %w", err)
			}
			cat.Products[i].MaxTenureYears = v
		case "downPaymentRatio":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid downPaymentRatio value: %w", err)
			}
			cat.Products[i].DownPaymentRatio = v
		default:
			return fmt.Errorf("unknown field: %s", field)
		}
		break
	}

	if !found {
		return fmt.Errorf("product with type %s not found", loanType)
	}

	cat.LastUpdated = time.Now().Format("2006-01-02")
	if err := cat.Validate(); err != nil {
		return err
	}
	return saveCatalog(cat, catalogPath)
}

// saveCatalog handles saving the catalog to file
func saveCatalog(cat *catalog.LoanCatalog, path string) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}

	return nil
}

func help() {
	fmt.Println(`
Usage: catalog-updater <command> [flags]

Commands:
  add      Add a new loan product to the catalog
  update   Update an existing product's field
  validate Validate the catalog file
  export   Write the compiled-in default catalog to a file
  help     Show this help message

Examples:
  catalog-updater export -path configs/loan-catalog.json
  catalog-updater add -type gold -displayName "Gold Loan" -externalId personalLoan -rate 9.0 -minAmount 25000 -maxAmount 1000000 -maxTenureYears 3
  catalog-updater update -type home -field rate -value 8.25
  catalog-updater validate -path configs/loan-catalog.json

Use 'catalog-updater <command> -h' for more information about a command.`)
}
