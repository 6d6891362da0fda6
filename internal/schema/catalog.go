package schema

// Статический каталог сущностей лаборатории. Раньше типы полей выводились
// из формы данных в рантайме — теперь всё явно, включая связи FK.

func text(name, label string) Field    { return Field{Name: name, Label: label, Kind: KindText} }
func date(name, label string) Field    { return Field{Name: name, Label: label, Kind: KindDate} }
func integer(name, label string) Field { return Field{Name: name, Label: label, Kind: KindInteger} }
func decimal(name, label string) Field { return Field{Name: name, Label: label, Kind: KindDecimal} }
func fk(name, label, related string) Field {
	return Field{Name: name, Label: label, Kind: KindForeignKey, Related: related}
}
func required(f Field) Field { f.Required = true; return f }

// analysisBase — общая шапка всех анализов: ссылка на пробу + дата
func analysisBase(dateField, dateLabel string) []Field {
	return []Field{
		required(fk("sampleId", "Sample", "samples")),
		date(dateField, dateLabel),
	}
}

// Catalog возвращает дескрипторы всех сущностей дашборда
func Catalog() []*Entity {
	return []*Entity{
		{
			ID: "accounts", Path: "Accounts", Title: "Accounts",
			DisplayField: "name", UpdateVerb: VerbPatch,
			Fields:     []Field{required(text("name", "Account Name"))},
			ListFields: []string{"name"},
			FormGroups: []FormGroup{
				{Label: "Account Details", Fields: []string{"name"}},
			},
		},
		{
			ID: "facilities", Path: "Facilities", Title: "Facilities",
			DisplayField: "name", UpdateVerb: VerbPatch,
			Fields:     []Field{required(text("name", "Facility Name"))},
			ListFields: []string{"name"},
			FormGroups: []FormGroup{
				{Label: "Facility Details", Fields: []string{"name"}},
			},
		},
		{
			ID: "samplePoints", Path: "SamplePoints", Title: "Sample Points",
			DisplayField: "name", UpdateVerb: VerbPatch,
			Fields: []Field{
				required(text("name", "Point Name")),
				required(fk("facilityId", "Facility", "facilities")),
				text("wellVessel", "Well / Vessel"),
				text("location", "Location"),
			},
			ListFields: []string{"name", "facilityId", "location"},
			FormGroups: []FormGroup{
				{Label: "Sample Point Details", Fields: []string{"name"}},
				{Label: "Location Information", Fields: []string{"facilityId", "location", "wellVessel"}},
			},
		},
		{
			ID: "contacts", Path: "Contacts", Title: "Contacts",
			DisplayField: "name", UpdateVerb: VerbPatch,
			Fields: []Field{
				required(text("name", "Contact Name")),
				fk("accountId", "Account", "accounts"),
			},
			ListFields: []string{"name", "accountId"},
			FormGroups: []FormGroup{
				{Label: "Contact Information", Fields: []string{"name"}},
				{Label: "Account Association", Fields: []string{"accountId"}},
			},
		},
		{
			ID: "samples", Path: "Samples", Title: "Samples",
			DisplayField: "sampleId", UpdateVerb: VerbPut,
			Fields: []Field{
				required(text("sampleId", "Sample ID")),
				required(fk("facilityId", "Facility", "facilities")),
				required(fk("samplePointId", "Sample Point", "samplePoints")),
				required(fk("ownerId", "Owner", "accounts")),
				fk("facilitatorId", "Facilitator", "accounts"),
				date("collectionDate", "Collection Date"),
				fk("collectedById", "Collected By", "contacts"),
				date("dateReceivedByLab", "Date Received By Lab"),
				date("completionDate", "Completion Date"),
			},
			ListFields:   []string{"sampleId", "facilityId", "samplePointId", "collectionDate"},
			FilterFields: []string{"facilityId", "samplePointId", "ownerId"},
			FormGroups: []FormGroup{
				{Label: "Sample Identification", Fields: []string{"sampleId"}},
				{Label: "Associations", Fields: []string{"facilityId", "samplePointId", "ownerId", "facilitatorId"}},
				{Label: "Collection Information", Fields: []string{"collectionDate", "collectedById", "dateReceivedByLab", "completionDate"}},
			},
		},
		{
			ID: "waterAnalyses", Path: "WaterAnalyses", Title: "Water Analyses", Dropdown: "Analyses",
			DisplayField: "id", UpdateVerb: VerbPut,
			Fields: append(analysisBase("dateAnalyzed", "Date Analyzed"),
				decimal("ph", "pH"),
				integer("totalDissolvedSolids", "Total Dissolved Solids"),
				decimal("bwpd", "BWPD"),
				decimal("mcfd", "MCFD"),
				decimal("dissolvedCO2", "Dissolved CO2"),
				decimal("dissolvedH2S", "Dissolved H2S"),
				decimal("gasCO2", "Gas CO2"),
				decimal("gasH2S", "Gas H2S"),
				decimal("specificGravity", "Specific Gravity"),
				decimal("chlorides", "Chlorides"),
				decimal("bicarbonates", "Bicarbonates"),
				decimal("sulfates", "Sulfates"),
				decimal("ironTotal", "Iron Total"),
				decimal("manganese", "Manganese"),
				decimal("barium", "Barium"),
				decimal("calcium", "Calcium"),
				decimal("potassium", "Potassium"),
				decimal("lithium", "Lithium"),
				decimal("magnesium", "Magnesium"),
				decimal("sodium", "Sodium"),
				decimal("phosphates", "Phosphates"),
				decimal("strontium", "Strontium"),
				decimal("zinc", "Zinc"),
			),
			ListFields: []string{"sampleId", "dateAnalyzed", "ph", "totalDissolvedSolids"},
			FormGroups: []FormGroup{
				{Label: "Analysis Information", Fields: []string{"sampleId", "dateAnalyzed"}},
				{Label: "Measurements", Fields: []string{"ph", "totalDissolvedSolids", "bwpd", "mcfd", "dissolvedCO2", "dissolvedH2S", "gasCO2", "gasH2S", "specificGravity"}},
				{Label: "Water Chemistry", Fields: []string{"chlorides", "bicarbonates", "sulfates", "ironTotal", "manganese", "barium", "calcium", "potassium", "lithium", "magnesium", "sodium", "phosphates", "strontium", "zinc"}},
			},
		},
		{
			ID: "oilAnalyses", Path: "OilAnalyses", Title: "Oil Analyses", Dropdown: "Analyses",
			DisplayField: "id", UpdateVerb: VerbPut,
			Fields: append(analysisBase("dateAnalyzed", "Date Analyzed"),
				decimal("apiGravity", "API Gravity"),
				decimal("asphalteneContent", "Asphaltene Content"),
				decimal("solidsContent", "Solids Content"),
				decimal("flowingTemperature", "Flowing Temperature"),
				decimal("totalWaxContent", "Total Wax Content"),
				decimal("waxAppearanceTemp", "Wax Appearance Temp"),
				decimal("c16C120", "C16-C120"),
				text("appearance", "Appearance"),
				integer("pourPoint", "Pour Point"),
				decimal("analysisCost", "Analysis Cost"),
			),
			ListFields: []string{"sampleId", "dateAnalyzed", "apiGravity", "analysisCost"},
			FormGroups: []FormGroup{
				{Label: "Analysis Information", Fields: []string{"sampleId", "dateAnalyzed"}},
				{Label: "Oil Properties", Fields: []string{"apiGravity", "asphalteneContent", "solidsContent", "flowingTemperature", "totalWaxContent", "waxAppearanceTemp", "c16C120", "appearance", "pourPoint"}},
				{Label: "Cost Details", Fields: []string{"analysisCost"}},
			},
		},
		{
			ID: "bacteriaAnalyses", Path: "BacteriaAnalyses", Title: "Bacteria Analyses", Dropdown: "Analyses",
			DisplayField: "id", UpdateVerb: VerbPut,
			Fields: []Field{
				required(fk("sampleId", "Sample", "samples")),
				date("apbReadingDate", "APB Reading Date"),
				date("srbReadingDate", "SRB Reading Date"),
				decimal("apbIncubationPeriod", "APB Incubation Period"),
				decimal("srbIncubationPeriod", "SRB Incubation Period"),
				integer("apbPositiveBottles", "APB Positive Bottles"),
				integer("srbPositiveBottles", "SRB Positive Bottles"),
			},
			ListFields: []string{"sampleId", "apbReadingDate", "srbReadingDate", "apbPositiveBottles"},
			FormGroups: []FormGroup{
				{Label: "Analysis Information", Fields: []string{"sampleId", "apbReadingDate", "srbReadingDate"}},
				{Label: "Incubation Periods", Fields: []string{"apbIncubationPeriod", "srbIncubationPeriod"}},
				{Label: "Results", Fields: []string{"apbPositiveBottles", "srbPositiveBottles"}},
			},
		},
		{
			ID: "atpBacteriaAnalyses", Path: "AtpBacteriaAnalyses", Title: "ATP Bacteria Analyses", Dropdown: "Analyses",
			DisplayField: "id", UpdateVerb: VerbPut,
			Fields: append(analysisBase("dateAnalyzed", "Date Analyzed"),
				text("atpType", "ATP Type"),
				decimal("sampleSize", "Sample Size"),
				integer("rluStandard", "RLU Standard"),
				integer("rluBlank", "RLU Blank"),
				integer("rluSample", "RLU Sample"),
				decimal("atpM", "ATP M"),
				integer("microbialEquivalent", "Microbial Equivalent"),
			),
			ListFields: []string{"sampleId", "dateAnalyzed", "atpType", "microbialEquivalent"},
			FormGroups: []FormGroup{
				{Label: "Analysis Information", Fields: []string{"sampleId", "dateAnalyzed", "atpType"}},
				{Label: "ATP Measurements", Fields: []string{"sampleSize", "rluStandard", "rluBlank", "rluSample", "atpM"}},
				{Label: "Microbial Equivalent", Fields: []string{"microbialEquivalent"}},
			},
		},
		{
			ID: "millipores", Path: "Millipores", Title: "Millipore Analyses", Dropdown: "Analyses",
			DisplayField: "id", UpdateVerb: VerbPut,
			Fields: append(analysisBase("dateAnalyzed", "Date Analyzed"),
				integer("volume", "Volume"),
				decimal("time", "Time"),
				decimal("pressure", "Pressure"),
				decimal("milliporeSize", "Millipore Size"),
				decimal("pluggingFactor", "Plugging Factor"),
				decimal("totalSuspendedSolids", "Total Suspended Solids"),
			),
			ListFields: []string{"sampleId", "dateAnalyzed", "volume", "pressure"},
			FormGroups: []FormGroup{
				{Label: "Analysis Information", Fields: []string{"sampleId", "dateAnalyzed"}},
				{Label: "Filtration Details", Fields: []string{"volume", "time", "pressure", "milliporeSize", "pluggingFactor"}},
				{Label: "Results", Fields: []string{"totalSuspendedSolids"}},
			},
		},
		{
			ID: "corrosionInhibitorResiduals", Path: "CorrosionInhibitorResiduals", Title: "Corrosion Inhibitor Residuals", Dropdown: "Analyses",
			DisplayField: "id", UpdateVerb: VerbPut,
			Fields: append(analysisBase("dateAnalyzed", "Date Analyzed"),
				text("corrosionInhibitorUsed", "Inhibitor Used"),
				decimal("corrosionInhibitorResidual", "Residual"),
			),
			ListFields: []string{"sampleId", "dateAnalyzed", "corrosionInhibitorResidual"},
			FormGroups: []FormGroup{
				{Label: "Analysis Information", Fields: []string{"sampleId", "dateAnalyzed"}},
				{Label: "Inhibitor Details", Fields: []string{"corrosionInhibitorUsed"}},
				{Label: "Residual Measurements", Fields: []string{"corrosionInhibitorResidual"}},
			},
		},
		{
			ID: "scaleInhibitorResiduals", Path: "ScaleInhibitorResiduals", Title: "Scale Inhibitor Residuals", Dropdown: "Analyses",
			DisplayField: "id", UpdateVerb: VerbPut,
			Fields: append(analysisBase("dateAnalyzed", "Date Analyzed"),
				text("scaleInhibitorUsed", "Inhibitor Used"),
				decimal("scaleInhibitorResidual", "Residual"),
			),
			ListFields: []string{"sampleId", "dateAnalyzed", "scaleInhibitorResidual"},
			FormGroups: []FormGroup{
				{Label: "Analysis Information", Fields: []string{"sampleId", "dateAnalyzed"}},
				{Label: "Inhibitor Details", Fields: []string{"scaleInhibitorUsed"}},
				{Label: "Residual Measurements", Fields: []string{"scaleInhibitorResidual"}},
			},
		},
		{
			ID: "couponAnalyses", Path: "CouponAnalyses", Title: "Coupon Analyses", Dropdown: "Analyses",
			DisplayField: "id", UpdateVerb: VerbPut,
			Fields: []Field{
				required(fk("sampleId", "Sample", "samples")),
				date("dateIn", "Date In"),
				date("dateOut", "Date Out"),
				text("couponType", "Coupon Type"),
				integer("daysExposed", "Days Exposed"),
				integer("couponSurfaceArea", "Surface Area"),
				integer("initialWeight", "Initial Weight"),
				integer("finalWeight", "Final Weight"),
				integer("receivedWeight", "Received Weight"),
				integer("weightAfterXyleneWash", "Weight After Wash"),
				integer("couponCorrosionFactor", "Corrosion Factor"),
			},
			ListFields: []string{"sampleId", "dateIn", "daysExposed"},
			FormGroups: []FormGroup{
				{Label: "Coupon Identification", Fields: []string{"sampleId", "dateIn", "dateOut", "couponType"}},
				{Label: "Exposure Details", Fields: []string{"daysExposed", "couponSurfaceArea"}},
				{Label: "Weight Measurements", Fields: []string{"initialWeight", "finalWeight", "receivedWeight", "weightAfterXyleneWash"}},
				{Label: "Corrosion Metrics", Fields: []string{"couponCorrosionFactor"}},
			},
		},
	}
}

// Default — реестр из каталога; паникует только при ошибке в самом каталоге,
// то есть при ошибке программиста, и ловится первым же тестом.
func Default() *Registry {
	r, err := NewRegistry(Catalog())
	if err != nil {
		panic(err)
	}
	return r
}
