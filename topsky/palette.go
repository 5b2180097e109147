// topsky/palette.go
// Copyright(c) 2022 Matt Pharr, Apache License

package topsky

import (
	"maps"
	"slices"

	"github.com/mmp/esfiles/style"
)

// paletteEntry gives a built-in colour for the standard and the COOPANS
// setups. Some colours exist in only one of them.
type paletteEntry struct {
	standard, coopans *style.RGB
}

func rgb(r, g, b uint8) *style.RGB { return &style.RGB{R: r, G: g, B: b} }

// DefaultColour returns the built-in colour for name, which is used when
// neither the settings nor the maps file define it.
func DefaultColour(name string, coopans bool) (style.RGB, bool) {
	e, ok := defaultColours[name]
	if !ok {
		return style.RGB{}, false
	}
	c := e.standard
	if coopans {
		c = e.coopans
	}
	if c == nil {
		return style.RGB{}, false
	}
	return *c, true
}

// Palette returns a colour table holding the built-in colours for the
// given setup, in name order. Definitions from the settings and maps
// files are made after these and so take precedence.
func Palette(coopans bool) *style.Table {
	t := style.NewTable()
	for _, name := range slices.Sorted(maps.Keys(defaultColours)) {
		if c, ok := DefaultColour(name, coopans); ok {
			t.DefineRGB(name, c, 0)
		}
	}
	return t
}

var defaultColours = map[string]paletteEntry{
	"ACF_Via_CFL":             {rgb(82, 190, 115), rgb(82, 190, 115)},
	"Active_Map":              {rgb(70, 90, 135), rgb(198, 174, 58)},
	"Active_Map_Type_1":       {rgb(1, 1, 1), rgb(87, 87, 164)},
	"Active_Map_Type_2":       {rgb(90, 90, 90), rgb(80, 162, 74)},
	"Active_Map_Type_3":       {rgb(220, 205, 121), rgb(179, 180, 180)},
	"Active_Map_Type_4":       {rgb(121, 66, 133), rgb(200, 53, 18)},
	"Active_Map_Type_5":       {rgb(51, 102, 152), rgb(198, 174, 58)},
	"Active_Map_Type_6":       {rgb(114, 69, 58), rgb(114, 69, 58)},
	"Active_Map_Type_7":       {rgb(138, 20, 12), rgb(138, 20, 12)},
	"Active_Map_Type_8":       {rgb(195, 186, 69), rgb(195, 186, 69)},
	"Active_Map_Type_9":       {rgb(220, 125, 25), rgb(220, 125, 25)},
	"Active_Map_Type_10":      {rgb(255, 255, 255), rgb(255, 255, 255)},
	"Active_Map_Type_11":      {rgb(51, 134, 49), rgb(51, 134, 49)},
	"Active_Map_Type_12":      {rgb(41, 102, 255), rgb(41, 102, 255)},
	"Active_Map_Type_13":      {rgb(100, 160, 100), rgb(100, 160, 100)},
	"Active_Map_Type_14":      {rgb(141, 184, 236), rgb(141, 184, 236)},
	"Active_Map_Type_15":      {rgb(227, 213, 29), rgb(227, 213, 29)},
	"Active_Map_Type_16":      {rgb(60, 60, 60), rgb(60, 60, 60)},
	"Active_Map_Type_17":      {rgb(155, 155, 155), rgb(155, 155, 155)},
	"Active_Map_Type_18":      {rgb(183, 26, 19), rgb(183, 26, 19)},
	"Active_Map_Type_19":      {rgb(120, 91, 65), rgb(120, 91, 65)},
	"Active_Map_Type_20":      {rgb(138, 69, 58), rgb(138, 69, 58)},
	"Active_RD_Infill_Map":    {rgb(165, 160, 160), rgb(90, 90, 90)},
	"Active_RD_Map":           {rgb(124, 20, 13), rgb(150, 41, 43)},
	"Active_Sector":           {rgb(153, 154, 149), rgb(52, 58, 62)},
	"Active_Text_Map":         {rgb(210, 211, 211), rgb(190, 190, 190)},
	"AIW_Intrusion":           {rgb(255, 152, 0), rgb(255, 152, 0)},
	"Arm":                     {rgb(97, 97, 97), rgb(97, 97, 97)},
	"Assumed":                 {rgb(1, 0, 1), rgb(220, 220, 220)},
	"Background":              {rgb(162, 163, 156), rgb(74, 80, 85)},
	"Border":                  {rgb(51, 51, 52), rgb(51, 51, 52)},
	"BottomShadow":            {rgb(66, 66, 66), rgb(70, 70, 70)},
	"CARD_Mark_All":           {nil, rgb(255, 125, 125)},
	"CARD_Mark_Own":           {nil, rgb(255, 124, 125)},
	"CARD_Min_Sep":            {rgb(209, 207, 211), rgb(61, 61, 61)},
	"CARD_Reminder":           {nil, rgb(170, 231, 198)},
	"CARD_Symbol_Fg":          {rgb(0, 1, 0), rgb(9, 10, 11)},
	"CARD_Time_Vector":        {rgb(95, 95, 95), rgb(171, 231, 197)},
	"COL_Above_Threshold":     {nil, rgb(239, 225, 41)},
	"COL_Under_Threshold":     {nil, rgb(220, 220, 221)},
	"Concerned":               {rgb(124, 1, 124), rgb(111, 153, 110)},
	"Conflict_Ack":            {rgb(110, 98, 98), rgb(135, 127, 118)},
	"Conflict_Ack_FL":         {rgb(110, 98, 98), rgb(135, 127, 117)},
	"Coordination":            {rgb(0, 0, 185), rgb(150, 215, 150)},
	"CPDLC_Controller_Late":   {rgb(235, 225, 108), rgb(170, 78, 39)},
	"CPDLC_Discarded":         {rgb(141, 141, 141), rgb(128, 128, 128)},
	"CPDLC_DM_Request":        {rgb(205, 252, 254), rgb(30, 250, 250)},
	"CPDLC_Failed":            {rgb(169, 8, 9), rgb(170, 78, 39)},
	"CPDLC_Pilot_Late":        {rgb(246, 164, 96), rgb(170, 78, 40)},
	"CPDLC_Standby":           {rgb(170, 248, 87), rgb(170, 78, 39)},
	"CPDLC_UM_Clearance":      {rgb(2, 2, 2), rgb(30, 251, 250)},
	"CPDLC_Unable":            {rgb(247, 164, 96), rgb(170, 77, 39)},
	"CPDLC_Urgency":           {rgb(237, 229, 108), rgb(226, 25, 25)},
	"Datalink_Logged_On":      {rgb(120, 120, 120), rgb(145, 145, 145)},
	"Deselected":              {rgb(127, 127, 127), rgb(95, 95, 96)},
	"East_NAT_Map":            {rgb(180, 180, 1), rgb(180, 180, 1)},
	"Field_Highlight":         {rgb(209, 207, 211), rgb(72, 72, 73)},
	"Flight_Highlight":        {rgb(190, 190, 185), rgb(36, 41, 45)},
	"Flight_Leg":              {rgb(205, 252, 255), rgb(170, 231, 197)},
	"Foreground":              {rgb(0, 1, 0), rgb(200, 200, 200)},
	"FPLSEP_Tool_1":           {rgb(255, 170, 46), nil},
	"FPLSEP_Tool_2":           {rgb(204, 122, 0), nil},
	"FPLSEP_Tool_3":           {rgb(255, 195, 75), nil},
	"FPLSEP_Tool_4":           {rgb(223, 143, 1), nil},
	"FPLSEP_Tool_5":           {rgb(170, 102, 0), nil},
	"Freq_Indicator":          {rgb(209, 207, 211), rgb(114, 136, 255)},
	"Global_Menu_Highlight":   {rgb(211, 211, 211), rgb(1, 165, 219)},
	"Heading_Vector":          {rgb(200, 200, 200), rgb(170, 232, 197)},
	"Info_Coord":              {rgb(244, 164, 96), rgb(1, 255, 255)},
	"Information":             {rgb(169, 249, 86), rgb(40, 210, 40)},
	"Information_FL":          {rgb(0, 200, 1), rgb(41, 245, 41)},
	"Informed":                {rgb(25, 109, 25), rgb(175, 125, 175)},
	"Informed_2":              {rgb(25, 109, 25), rgb(104, 163, 195)},
	"Informed_3":              {rgb(25, 109, 25), rgb(147, 124, 108)},
	"LatLong_Info":            {nil, rgb(169, 231, 197)},
	"Map_1":                   {rgb(121, 66, 133), rgb(80, 95, 95)},
	"Map_2":                   {rgb(115, 115, 112), rgb(44, 44, 44)},
	"Map_3":                   {rgb(213, 241, 155), rgb(100, 108, 111)},
	"Map_4":                   {rgb(164, 164, 157), rgb(52, 58, 62)},
	"Map_Auto_Label":          {rgb(115, 115, 112), rgb(159, 159, 160)},
	"Map_Auto_Symbol":         {rgb(115, 115, 112), rgb(159, 159, 160)},
	"Map_Border":              {rgb(117, 117, 117), rgb(134, 134, 135)},
	"Map_Hotspot":             {rgb(72, 72, 70), rgb(87, 139, 200)},
	"Map_Info":                {rgb(217, 217, 216), rgb(150, 150, 150)},
	"Map_Land":                {rgb(133, 133, 138), rgb(140, 140, 0)},
	"Map_Symbol":              {rgb(55, 55, 55), rgb(110, 130, 140)},
	"MQDM":                    {nil, rgb(155, 140, 115)},
	"Negotiation_In":          {nil, rgb(220, 125, 175)},
	"Negotiation_Out":         {nil, rgb(220, 125, 175)},
	"Normal_Load":             {rgb(1, 50, 1), rgb(75, 75, 78)},
	"Oceanic_Level_Highlight": {rgb(240, 225, 42), rgb(240, 225, 41)},
	"Overflown":               {rgb(169, 249, 86), rgb(82, 105, 146)},
	"Overload":                {rgb(255, 128, 1), rgb(224, 26, 25)},
	"Potential":               {rgb(41, 40, 216), rgb(41, 40, 216)},
	"Potential_FL":            {rgb(40, 41, 216), rgb(40, 41, 216)},
	"Preactive_Map":           {rgb(116, 115, 112), rgb(154, 138, 128)},
	"Preactive_Text_Map":      {rgb(210, 211, 212), rgb(155, 147, 138)},
	"Predisplay_Map":          {rgb(190, 190, 190), rgb(175, 130, 130)},
	"Proposition_Accepted":    {rgb(255, 255, 0), rgb(255, 255, 0)},
	"Proposition_In":          {rgb(254, 255, 255), rgb(220, 125, 175)},
	"Proposition_Out":         {rgb(254, 255, 255), rgb(220, 125, 175)},
	"QDM":                     {rgb(200, 200, 200), rgb(215, 190, 163)},
	"Radar_Win_Bg":            {rgb(164, 164, 157), rgb(67, 73, 76)},
	"Raw_Video1":              {rgb(55, 85, 115), rgb(55, 85, 115)},
	"Raw_Video2":              {rgb(50, 80, 110), rgb(50, 80, 110)},
	"Raw_Video3":              {rgb(45, 75, 105), rgb(45, 75, 105)},
	"Raw_Video4":              {rgb(40, 70, 100), rgb(40, 70, 100)},
	"Raw_Video5":              {rgb(35, 65, 95), rgb(35, 65, 95)},
	"Raw_Video6":              {rgb(30, 60, 90), rgb(30, 60, 90)},
	"Raw_Video7":              {rgb(25, 55, 85), rgb(25, 55, 85)},
	"Redundant":               {rgb(156, 96, 59), rgb(185, 140, 89)},
	"Reminder":                {nil, rgb(165, 145, 225)},
	"Runway":                  {rgb(200, 200, 160), rgb(116, 200, 71)},
	"Rwy_App_Line_Inuse":      {rgb(220, 220, 220), rgb(82, 190, 115)},
	"Rwy_App_Line_Not_Inuse":  {rgb(220, 205, 121), rgb(135, 135, 70)},
	"Rwy_Locked":              {rgb(124, 1, 124), rgb(41, 210, 41)},
	"Select":                  {rgb(97, 97, 97), rgb(151, 215, 150)},
	"Selected":                {rgb(210, 210, 210), rgb(61, 121, 148)},
	"Selected_Group":          {rgb(226, 210, 210), nil},
	"Selected_Period":         {rgb(220, 40, 70), rgb(255, 255, 41)},
	"SEP_Tool_1":              {rgb(205, 252, 255), rgb(153, 217, 234)},
	"SEP_Tool_2":              {rgb(25, 210, 230), rgb(255, 153, 184)},
	"SEP_Tool_3":              {rgb(120, 245, 250), rgb(255, 209, 143)},
	"SEP_Tool_4":              {rgb(185, 240, 244), rgb(197, 64, 212)},
	"SEP_Tool_5":              {rgb(25, 180, 210), rgb(140, 140, 255)},
	"SEP_Tool_6":              {nil, rgb(95, 170, 140)},
	"SEP_Tool_7":              {nil, rgb(185, 130, 85)},
	"SEP_Vert":                {nil, rgb(160, 150, 135)},
	"Sid_Star_Allocation":     {rgb(124, 1, 124), rgb(15, 185, 15)},
	"SMW_Highlight":           {rgb(255, 255, 255), rgb(253, 255, 255)},
	"SMW_Level_Band":          {rgb(169, 249, 86), rgb(24, 209, 114)},
	"SMW_Overflight":          {rgb(236, 228, 108), rgb(254, 152, 1)},
	"SMW_Overlap":             {rgb(168, 7, 8), rgb(224, 25, 25)},
	"SMW_Overlap_Box":         {rgb(0, 1, 0), rgb(207, 207, 207)},
	"SMW_Overshoot":           {rgb(236, 228, 108), rgb(239, 224, 40)},
	"Standard_Line_RDF":       {rgb(91, 134, 76), rgb(91, 134, 76)},
	"Standard_RDF":            {rgb(11, 12, 19), rgb(11, 12, 19)},
	"Suite_Highlight":         {rgb(236, 228, 108), rgb(0, 220, 255)},
	"System_Calculated_TOC":   {nil, rgb(170, 230, 197)},
	"System_Calculated_TOD":   {nil, rgb(170, 231, 197)},
	"Temp_Track_Highlight":    {rgb(0, 164, 220), rgb(0, 164, 220)},
	"Text_Notes":              {rgb(0, 0, 0), rgb(255, 0, 0)},
	"TopShadow":               {rgb(130, 130, 130), rgb(155, 158, 159)},
	"Track_Default":           {rgb(188, 188, 188), rgb(210, 210, 210)},
	"Track_Highlight":         {rgb(255, 255, 255), rgb(0, 165, 219)},
	"Trough":                  {rgb(97, 97, 97), rgb(97, 99, 97)},
	"TSA_Active":              {rgb(220, 205, 120), rgb(93, 138, 195)},
	"TSA_Border_Highlight":    {rgb(255, 254, 255), rgb(255, 254, 255)},
	"TSA_Filter":              {rgb(255, 253, 255), nil},
	"TSA_Preactive":           {rgb(80, 80, 80), rgb(132, 142, 139)},
	"Unconcerned":             {rgb(110, 98, 98), rgb(135, 128, 118)},
	"Unknown":                 {rgb(237, 228, 108), rgb(239, 224, 42)},
	"Urgency":                 {rgb(236, 32, 0), rgb(225, 25, 26)},
	"Urgency_FL":              {rgb(166, 11, 1), rgb(225, 25, 25)},
	"VAW_Profile":             {rgb(130, 204, 240), rgb(152, 202, 172)},
	"VAW_Sector_Limits":       {rgb(190, 190, 185), rgb(145, 95, 30)},
	"VAW_Track_Position":      {rgb(190, 190, 185), rgb(219, 219, 219)},
	"VFR":                     {rgb(110, 1, 10), rgb(110, 1, 10)},
	"Warning":                 {rgb(236, 228, 108), rgb(240, 225, 41)},
	"Warning_FL":              {rgb(235, 228, 108), rgb(240, 226, 41)},
	"Weather_Map":             {rgb(99, 99, 98), rgb(0, 0, 86)},
	"West_NAT_Map":            {rgb(40, 140, 255), rgb(40, 140, 255)},
	"WM_Active_Fg":            {rgb(230, 230, 231), rgb(255, 254, 254)},
	"WM_Bg":                   {rgb(147, 147, 145), rgb(100, 100, 105)},
	"WM_Border":               {rgb(50, 50, 50), rgb(88, 95, 99)},
	"WM_Fg":                   {rgb(1, 1, 1), rgb(180, 184, 181)},
	"WM_Frame":                {rgb(1, 1, 0), rgb(88, 95, 99)},
}
