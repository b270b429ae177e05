package entity

// RegionalManagerScope lists the shops a regional manager may query.
// ShopIDs feed the shop list provider, ShopNames the data queries.
type RegionalManagerScope struct {
	ShopIDs   []string `mapstructure:"shop_ids"`
	ShopNames []string `mapstructure:"shop_names"`
}

// Policy is the access and exclusion configuration shared by the role
// classifier, the scope resolver and the sales data accessor. It is loaded
// once at startup and never mutated.
type Policy struct {
	AdminLoginIDs        []string                        `mapstructure:"admin_login_ids"`
	RegionalManagers     map[string]RegionalManagerScope `mapstructure:"regional_managers"`
	ManagerRoleCode      int                             `mapstructure:"manager_role_code"`
	LoginIDPrefixes      []string                        `mapstructure:"login_id_prefixes"`
	ExcludedProductCodes []string                        `mapstructure:"excluded_product_codes"`
	ExcludedShopLabels   []string                        `mapstructure:"excluded_shop_labels"`
	LegacyRoles          bool                            `mapstructure:"legacy_roles"`
}

const DefaultManagerRoleCode = 41

// DefaultPolicy returns the production access policy.
func DefaultPolicy() Policy {
	shops := RegionalManagerScope{
		ShopIDs:   []string{"3", "30"},
		ShopNames: []string{"杭州留和路店", "苏州诚品店"},
	}
	return Policy{
		AdminLoginIDs: []string{"caoli", "mamingyao", "libaonan"},
		RegionalManagers: map[string]RegionalManagerScope{
			"chenweiwei":   shops,
			"chenweiweicp": shops,
			"chenweiweihz": shops,
		},
		ManagerRoleCode:      DefaultManagerRoleCode,
		LoginIDPrefixes:      []string{"wx"},
		ExcludedProductCodes: []string{"dingjin", "0500553", "FY00049", "FY00017", "6616801"},
		ExcludedShopLabels:   []string{"线上商城", "礼品部"},
	}
}
