package models

// Нормализованные имена колонок записи о вызове
const (
	ColCallNumber       = "CallNumber"
	ColUnitType         = "UnitType"
	ColCallType         = "CallType"
	ColCallDate         = "CallDate"
	ColWatchDate        = "WatchDate"
	ColReceivedDtTm     = "ReceivedDtTm"
	ColEntryDtTm        = "EntryDtTm"
	ColDispatchDtTm     = "DispatchDtTm"
	ColResponseDtTm     = "ResponseDtTm"
	ColOnSceneDtTm      = "OnSceneDtTm"
	ColFinalDisposition = "FinalDisposition"
	ColAvailableDtTm    = "AvailableDtTm"
	ColZipcode          = "ZipcodeofIncident"
	ColDelay            = "Delay"
	ColNeighborhood     = "Neighborhood"
)

// IncidentColumnMapping - фиксированное переименование сырых заголовков в нормализованные
var IncidentColumnMapping = [][2]string{
	{"Call Number", ColCallNumber},
	{"Unit Type", ColUnitType},
	{"Call Type", ColCallType},
	{"Call Date", ColCallDate},
	{"Watch Date", ColWatchDate},
	{"Received DtTm", ColReceivedDtTm},
	{"Entry DtTm", ColEntryDtTm},
	{"Dispatch DtTm", ColDispatchDtTm},
	{"Response DtTm", ColResponseDtTm},
	{"On Scene DtTm", ColOnSceneDtTm},
	{"Call Final Disposition", ColFinalDisposition},
	{"Available DtTm", ColAvailableDtTm},
	{"Zipcode of Incident", ColZipcode},
}

// NumericColumns - колонки, которые должны загружаться как числа
var NumericColumns = []string{ColDelay}
