// Package invoice отвечает за генерацию PDF счетов-фактур регистрации.
package invoice

// CompanyDetails — реквизиты компании, печатаемые на счете и в письмах.
type CompanyDetails struct {
	Title         string
	AccountNo     string
	IbanNo        string
	BankName      string
	BankSwiftCode string
	BankAddress   string
	Phone         string
	Email         string
	CRNumber      string
	TINNumber     string
	Website       string
}

// DefaultCompanyDetails возвращает фиксированные реквизиты компании.
func DefaultCompanyDetails() CompanyDetails {
	return CompanyDetails{
		Title:         "IoT Solutions Company",
		AccountNo:     "IOT123456789",
		IbanNo:        "SA10 4500 0000 1234 5678 9012",
		BankName:      "Sample Bank",
		BankSwiftCode: "SAMPBANK",
		BankAddress:   "Sample Address, Sample City",
		Phone:         "9200-12345",
		Email:         "info@iotsolutions.com",
		CRNumber:      "1234567890",
		TINNumber:     "123456789012345",
		Website:       "iotsolutions.com",
	}
}
