package dataset

import (
	"time"

	"github.com/address-offers/app/models"
)

// Sample returns a small prepared dataset covering a city with streets, a streetless
// village, partial coverage and a mixed offer catalog. It backs the memory driver when
// no snapshot is configured.
func Sample() *Dataset {
	day := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }

	ds := &Dataset{
		Settlements: []models.Settlement{
			{Code: "0918123", AdminCode: "1465011", Name: "Warszawa", District: "Warszawa", Weight: 1000},
			{Code: "0569881", AdminCode: "1420032", Name: "Warszawka", District: "Płoński", Weight: 5},
			{Code: "0950463", AdminCode: "1261011", Name: "Kraków", District: "Kraków", Weight: 800},
			{Code: "0950470", AdminCode: "1261049", Name: "Kraków (Nowa Huta)", District: "Kraków", Weight: 40},
			{Code: "0045678", AdminCode: "0223042", Name: "Nowa Wieś", District: "Wrocławski", Weight: 3},
		},
		Streets: []models.Street{
			{SettlementCode: "0918123", StreetID: "10001", Name: "ul. Marszałkowska"},
			{SettlementCode: "0918123", StreetID: "10001", Name: "ul. marszałkowska róg"},
			{SettlementCode: "0918123", StreetID: "10002", Name: "al. jerozolimskie"},
			{SettlementCode: "0918123", StreetID: "10003", Name: "al. Aleje Ujazdowskie"},
			{SettlementCode: "0918123", StreetID: "10004", Name: "Aleje Ujazdowskie"},
			{SettlementCode: "0918123", StreetID: "10005", Name: "pl. defilad"},
			{SettlementCode: "0918123", StreetID: "10006", Name: "os. przyjaźń"},
			{SettlementCode: "0918123", StreetID: "10007", Name: "rondo ONZ"},
			{SettlementCode: "0918123", StreetID: "10008", Name: "ul. Jana Pawła ii"},
			{SettlementCode: "0950463", StreetID: "20001", Name: "ul. Floriańska"},
			{SettlementCode: "0045678", StreetID: models.NoStreetID, Name: "-"},
		},
		Buildings: []models.BuildingNumber{
			{SettlementCode: "0918123", StreetID: "10001", Number: "1"},
			{SettlementCode: "0918123", StreetID: "10001", Number: "2"},
			{SettlementCode: "0918123", StreetID: "10001", Number: "10"},
			{SettlementCode: "0918123", StreetID: "10001", Number: "3A"},
			{SettlementCode: "0918123", StreetID: "10001", Number: "12"},
			{SettlementCode: "0918123", StreetID: "10001", Number: "12A"},
			{SettlementCode: "0918123", StreetID: "10001", Number: "312"},
			{SettlementCode: "0918123", StreetID: "10001", Number: "12"},
			{SettlementCode: "0950463", StreetID: "20001", Number: "1"},
			{SettlementCode: "0950463", StreetID: "20001", Number: "5"},
			{SettlementCode: "0045678", StreetID: models.NoStreetID, Number: "1"},
			{SettlementCode: "0045678", StreetID: models.NoStreetID, Number: "2"},
			{SettlementCode: "0045678", StreetID: models.NoStreetID, Number: "7"},
		},
		Operators: []models.Operator{
			{ID: "op-a", Name: "Netia", Active: true},
			{ID: "op-b", Name: "Orange Polska", Active: true},
			{ID: "op-c", Name: "Plus", Active: true},
			{ID: "op-x", Name: "Defunct Net", Active: false},
		},
		Offers: []models.Offer{
			{ID: "a-fiber-1g", OperatorID: "op-a", Title: "Światłowód 1 Gb/s", ConnectionType: models.ConnectionCable, Priority: 10, Active: true, Price: 89.99, SpeedMbps: 1000, CreatedAt: day(10)},
			{ID: "a-fiber-300", OperatorID: "op-a", Title: "Światłowód 300 Mb/s", ConnectionType: models.ConnectionCable, Priority: 8, Active: true, Price: 59.99, SpeedMbps: 300, CreatedAt: day(9)},
			{ID: "a-fiber-legacy", OperatorID: "op-a", Title: "Neostrada", ConnectionType: models.ConnectionCable, Priority: 1, Active: false, Price: 49.99, SpeedMbps: 60, CreatedAt: day(1)},
			{ID: "b-fiber-600", OperatorID: "op-b", Title: "Orange Światłowód 600", ConnectionType: models.ConnectionCable, Priority: 9, Active: true, Price: 69.99, SpeedMbps: 600, CreatedAt: day(8)},
			{ID: "b-5g", OperatorID: "op-b", Title: "Internet 5G", ConnectionType: models.ConnectionMobile, Priority: 6, Active: true, Price: 50, SpeedMbps: 300, CreatedAt: day(7)},
			{ID: "c-lte", OperatorID: "op-c", Title: "Internet LTE", ConnectionType: models.ConnectionMobile, Priority: 7, Active: true, Price: 40, SpeedMbps: 150, CreatedAt: day(6)},
			{ID: "c-krakow", OperatorID: "op-c", Title: "LTE Kraków", ConnectionType: models.ConnectionMobile, Local: true, LocalSettlements: []string{"Kraków"}, Priority: 5, Active: true, Price: 35, SpeedMbps: 150, CreatedAt: day(5)},
			{ID: "x-cable", OperatorID: "op-x", Title: "Kablówka", ConnectionType: models.ConnectionCable, Priority: 99, Active: true, Price: 30, SpeedMbps: 100, CreatedAt: day(2)},
		},
		Coverage: []models.CoverageRecord{
			{OperatorID: "op-a", SettlementCode: "0918123", StreetID: "10001", Number: "1", Capacity: 5, Provenance: models.ProvenanceImported, UpdatedAt: day(3)},
			{OperatorID: "op-b", SettlementCode: "0918123", StreetID: "10001", Number: "1", Capacity: 3, Provenance: models.ProvenanceImported, UpdatedAt: day(3)},
			{OperatorID: "op-b", SettlementCode: "0918123", StreetID: "10001", Number: "1", Capacity: 0, Provenance: models.ProvenanceManual, UpdatedAt: day(4)},
			{OperatorID: "op-a", SettlementCode: "0918123", StreetID: "99999", Number: "1", Capacity: 8, Provenance: models.ProvenanceManual, UpdatedAt: day(4)},
		},
		Antennas: []models.AntennaDistance{
			{OperatorID: "op-b", SettlementCode: "0918123", StreetID: "10001", Number: "2", DistanceMeters: 420, MeasuredAt: day(2)},
			{OperatorID: "op-c", SettlementCode: "0918123", StreetID: "10001", Number: "2", DistanceMeters: 1800, MeasuredAt: day(2)},
			{OperatorID: "op-c", SettlementCode: "0045678", StreetID: models.NoStreetID, Number: "7", DistanceMeters: 6200, MeasuredAt: day(2)},
		},
	}
	ds.Prepare()
	return ds
}
