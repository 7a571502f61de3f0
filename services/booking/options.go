package booking

// Option maps a form value to the translation key of its display label.
type Option struct {
	Value    string `json:"value"`
	LabelKey string `json:"labelKey"`
}

var BranchOptions = []Option{
	{Value: "Yuanhua", LabelKey: "opt_branch_1"},
	{Value: "Zhongfu", LabelKey: "opt_branch_2"},
}

var ServiceOptions = []Option{
	{Value: "Nail", LabelKey: "srv_nail_title"},
	{Value: "Lash", LabelKey: "srv_lash_title"},
	{Value: "Tattoo", LabelKey: "srv_tattoo_title"},
	{Value: "Waxing", LabelKey: "srv_wax_title"},
}

var BirthdayOptions = []Option{
	{Value: "none", LabelKey: "opt_bd_none"},
	{Value: "month", LabelKey: "opt_bd_month"},
	{Value: "week", LabelKey: "opt_bd_week"},
}

var MatteOptions = []Option{
	{Value: "none", LabelKey: "opt_matte_none"},
	{Value: "yes", LabelKey: "opt_matte_yes"},
	{Value: "no", LabelKey: "opt_matte_no"},
}

func lookup(opts []Option, value string) (Option, bool) {
	for _, o := range opts {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}
