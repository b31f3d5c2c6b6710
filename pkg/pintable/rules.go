package pintable

// Built-in substitutions shorten peripheral names. Each entry is a prefix
// pattern; it is applied as `^PREFIX([0-9_])` and the match is replaced by
// its capture groups only, so "USART2_TX" becomes "U2_TX".
var builtinSubstitutions = []string{
	`((?:HR|LP)?T)IM`,
	`((?:LP)?U)S?ART`,
	`(D)FSDM`,
	`(F)S?MC`,
	`(Q)UADSPI(?:_BK)?`,
	`(S)PI`,
	`(SW)PMI`,
	`I2(S)`,
	`(SD)MMC`,
	`(SP)DIFRX`,
	`FD(C)AN`,
	`USB_OTG_([FH]S)`,
	`(T\d_B)KIN`,
}

// Built-in factorizations, applied in order after substitutions.
var builtinFactorizations = []Factorization{
	{Pattern: `T\d_B\d?_COMP(\d+)`},
	{Pattern: `ADC(\d)_IN[NP]?\d+`},
	{Pattern: `ADC\d+_IN([NP]?\d+)`},
	{Pattern: `[SUT]\d_(.+)`, Sep: "/"},
}
