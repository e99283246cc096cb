package enums

type PaymentProvider string

const (
	PaymentProviderUnknown     PaymentProvider = ""
	PaymentProviderGumroad     PaymentProvider = "gumroad"
	PaymentProviderMercadoPago PaymentProvider = "mercadopago"
)
