package db

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	rethink "gopkg.in/gorethink/gorethink.v3"
)

const dbAddrEnvVar string = "RIN_DB_ADDR"
const dbNameDefault string = "rin"
const dbNameEnvVar string = "RIN_DB_NAME"
const baseDbPoolConnections int = 2
const maxDbPoolConnections int = 20

//Connection contains a handle to the database
type Connection struct {
	session *rethink.Session
}

//Init creates a new connection pool for the database at the address provided
//by the relevant environment variable, falling back to the supplied address.
func Init(fallbackAddr string) (*Connection, error) {
	//Get DB name from env
	dbName, exists := os.LookupEnv(dbNameEnvVar)
	if !exists {
		logrus.Warnf("DB name was not provided, falling back to default `%v`", dbNameDefault)
		dbName = dbNameDefault
	}
	//Get DB address from env
	rethinkDBAddr, exists := os.LookupEnv(dbAddrEnvVar)
	if !exists {
		rethinkDBAddr = fallbackAddr
	}
	if rethinkDBAddr == "" {
		logrus.Errorf("`%v` env variable was not set and no address was configured.", dbAddrEnvVar)
		return nil, fmt.Errorf("`%v` env variable was not set and no address was configured", dbAddrEnvVar)
	}
	//Create new connection pool to db
	session, err := rethink.Connect(rethink.ConnectOpts{
		Address:    rethinkDBAddr,
		Database:   dbName,
		InitialCap: baseDbPoolConnections,
		MaxOpen:    maxDbPoolConnections,
	})
	if err != nil {
		logrus.Errorf("Failed to create connection to rethinkdb instance at address %v because %v.", rethinkDBAddr, err)
		return nil, fmt.Errorf("failed to create connection to rethinkdb instance at address %v because %v", rethinkDBAddr, err)
	}

	res := Connection{
		session: session,
	}

	//Ensure database and required tables exist, and wait for it all to be ready
	res.CreateDatabase(dbName)
	res.CreateTables()

	return &res, nil
}

//Close cleanly terminates the database connection
func (db *Connection) Close() {
	logrus.Info("Terminating DB connection...")
	_ = db.session.Close()
}

//CreateTables ensures all tables needed exist.
func (db *Connection) CreateTables() {
	//guilds table
	_, err := rethink.TableCreate(guildsTable, rethink.TableCreateOpts{
		PrimaryKey: "id",
	}).RunWrite(db.session)
	if err != nil {
		logrus.Warnf("Failed to create guilds table due to error %v", err)
	}
	//per-guild feature config table
	_, err = rethink.TableCreate(guildConfigsTable, rethink.TableCreateOpts{
		PrimaryKey: "id",
	}).RunWrite(db.session)
	if err != nil {
		logrus.Warnf("Failed to create guild configs table due to error %v", err)
	}
	//Wait for all tables
	rethink.Table(guildsTable).Wait()
	rethink.Table(guildConfigsTable).Wait()
}

//WaitTablesRead blocks until every table is ready to serve reads.
func (db *Connection) WaitTablesRead() {
	waitOpts := rethink.WaitOpts{
		WaitFor: "ready_for_reads",
	}
	rethink.Table(guildsTable).Wait(waitOpts)
	rethink.Table(guildConfigsTable).Wait(waitOpts)
}

//CreateDatabase ensures the rin database exists
func (db *Connection) CreateDatabase(dbName string) {
	_, err := rethink.DBCreate(dbName).RunWrite(db.session)
	if err != nil {
		logrus.Warnf("Failed to create %v DB due to error %v", dbName, err)
	}
	rethink.DB(dbName).Wait()
}
