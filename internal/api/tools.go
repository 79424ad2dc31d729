package api

type toolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

func objectSchema(required []string, properties map[string]interface{}) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

var toolCatalog = []toolDescriptor{
	{
		Name:        "health",
		Description: "Report service status, name, current UTC time and environment.",
		InputSchema: objectSchema(nil, map[string]interface{}{}),
	},
	{
		Name: "quote_inventory_availability",
		Description: "Quote whether an order can be built from component stock on hand. " +
			"Returns the earliest ship date, estimated delivery date and the bottleneck components.",
		InputSchema: objectSchema([]string{"payload"}, map[string]interface{}{
			"payload": stringProp(`JSON text: {"lines":[{"product_id":1,"quantity":2}],"handling_days":2,"shipping_days":5}`),
			"db_path": stringProp("Optional store location overriding the default database."),
		}),
	},
	{
		Name:        "get_all_products",
		Description: "List every product with the number of units current component stock can build.",
		InputSchema: objectSchema(nil, map[string]interface{}{}),
	},
	{
		Name:        "get_all_customers",
		Description: "List every customer with their order count and total order value.",
		InputSchema: objectSchema(nil, map[string]interface{}{}),
	},
	{
		Name:        "add_customer",
		Description: "Create a customer. Every field is required.",
		InputSchema: objectSchema(
			[]string{"first_name", "last_name", "title", "company", "address", "city", "state", "zipcode", "phone_number"},
			map[string]interface{}{
				"first_name":   stringProp("Given name."),
				"last_name":    stringProp("Family name."),
				"title":        stringProp("Job title."),
				"company":      stringProp("Company name."),
				"address":      stringProp("Street address."),
				"city":         stringProp("City."),
				"state":        stringProp("State or region."),
				"zipcode":      stringProp("Postal code."),
				"phone_number": stringProp("Phone number."),
			}),
	},
	{
		Name:        "get_customer_by_id",
		Description: "Fetch one customer by identifier.",
		InputSchema: objectSchema([]string{"customer_id"}, map[string]interface{}{
			"customer_id": map[string]interface{}{"type": "integer"},
		}),
	},
}
